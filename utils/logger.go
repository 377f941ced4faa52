package utils

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
	loggerOnce  sync.Once
)

// InitLogger menyiapkan pasangan logger info/error. Aman dipanggil berkali-kali
// (test package memanggil ini di setiap setup).
func InitLogger() {
	loggerOnce.Do(func() {
		InfoLogger = logrus.New()
		ErrorLogger = logrus.New()

		// Info ke stdout, error ke stderr
		InfoLogger.SetOutput(os.Stdout)
		InfoLogger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})

		ErrorLogger.SetOutput(os.Stderr)
		ErrorLogger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})

		InfoLogger.SetLevel(logrus.InfoLevel)
		ErrorLogger.SetLevel(logrus.ErrorLevel)
	})
}
