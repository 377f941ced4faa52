package qr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/qrtable/tableside/utils"
	"golang.org/x/time/rate"
)

// State mesin issuer. REDIRECTING dan ERROR sama-sama terminal; keluar dari
// ERROR hanya lewat reload manual oleh user, tidak ada retry otomatis.
const (
	StateLoading     = "LOADING"
	StateRedirecting = "REDIRECTING"
	StateError       = "ERROR"
)

var (
	ErrRateLimited         = errors.New("too many requests, please wait")
	ErrInvalidTokenPayload = errors.New("invalid token payload")
	ErrIssueFailed         = errors.New("failed to issue session token")
)

// Navigator melakukan navigasi replace (bukan push) ke route tujuan.
// Implementasinya milik shell/webview, bukan core ini.
type Navigator interface {
	Replace(target string)
}

// Issuer menukar id statis meja (yang tercetak di QR fisik) dengan token
// session sekali-pakai dari backend, lalu mengarahkan navigasi ke route
// redemption sambil membawa token tersebut.
type Issuer struct {
	baseURL    string
	redeemPath string
	client     *http.Client
	nav        Navigator
	limiter    *rate.Limiter

	mu    sync.Mutex
	state string
}

func NewIssuer(baseURL, redeemPath string, nav Navigator) *Issuer {
	return &Issuer{
		baseURL:    baseURL,
		redeemPath: redeemPath,
		client:     &http.Client{Timeout: 10 * time.Second},
		nav:        nav,
		// Endpoint issuance di-rate-limit backend; limiter lokal mencegah
		// remount beruntun ikut membanjiri (5 burst, isi ulang per menit)
		limiter: rate.NewLimiter(rate.Every(1*time.Minute), 5),
		state:   StateLoading,
	}
}

func (i *Issuer) State() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

func (i *Issuer) setState(state string) {
	i.mu.Lock()
	i.state = state
	i.mu.Unlock()
}

// issueEnvelope menampung dua bentuk respon yang dipakai backend:
// {data:{token}} atau {token} telanjang di body.
type issueEnvelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    *struct {
		Token string `json:"token"`
	} `json:"data"`
	Token string `json:"token"`
}

func (e issueEnvelope) token() string {
	if e.Data != nil && e.Data.Token != "" {
		return e.Data.Token
	}
	return e.Token
}

// Issue melakukan tepat satu POST ke endpoint issuance per-meja lalu, kalau
// sukses, mengganti navigasi ke route redemption. Hasil yang datang setelah
// view pemiliknya hilang cukup diabaikan oleh pemanggil; tidak ada state yang
// dipersist di luar mesin state ini.
func (i *Issuer) Issue(ctx context.Context, tableStaticID string) error {
	if !i.limiter.Allow() {
		i.setState(StateError)
		return ErrRateLimited
	}

	endpoint := fmt.Sprintf("%s/api/qr/issue/%s", i.baseURL, url.PathEscape(tableStaticID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		i.setState(StateError)
		return fmt.Errorf("%w: %v", ErrIssueFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.client.Do(req)
	if err != nil {
		utils.ErrorLogger.Printf("Error issuing QR token for table %s: %v", tableStaticID, err)
		i.setState(StateError)
		return fmt.Errorf("%w: %v", ErrIssueFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		i.setState(StateError)
		return ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		utils.ErrorLogger.Printf("Issuance endpoint returned %d for table %s", resp.StatusCode, tableStaticID)
		i.setState(StateError)
		return ErrIssueFailed
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		i.setState(StateError)
		return fmt.Errorf("%w: %v", ErrIssueFailed, err)
	}

	var envelope issueEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		i.setState(StateError)
		return ErrInvalidTokenPayload
	}

	token := envelope.token()
	if token == "" {
		i.setState(StateError)
		return ErrInvalidTokenPayload
	}

	// Transisi terminal: replace navigasi ke route redemption membawa token
	i.setState(StateRedirecting)
	i.nav.Replace(fmt.Sprintf("%s?token=%s", i.redeemPath, url.QueryEscape(token)))
	return nil
}

// NoticeFor memetakan error issuance ke pesan yang tampil ke user.
func NoticeFor(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return "Terlalu banyak permintaan, silakan tunggu beberapa saat"
	default:
		return "Gagal membuat sesi meja, silakan muat ulang halaman"
	}
}
