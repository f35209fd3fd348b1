package pipeline

import (
	"context"
	"errors"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fpang/photoprint/internal/cleanup"
	"github.com/fpang/photoprint/internal/config"
	"github.com/fpang/photoprint/internal/imaging"
	"github.com/fpang/photoprint/internal/order"
	"github.com/fpang/photoprint/internal/printapi"
)

// fakeSubmitter records the submitted order. With no fn it accepts every
// asset.
type fakeSubmitter struct {
	fn       func(*printapi.Order) (*printapi.Outcome, error)
	calls    int
	gotOrder *printapi.Order
}

func (f *fakeSubmitter) SubmitOrder(ctx context.Context, ord *printapi.Order) (*printapi.Outcome, error) {
	f.calls++
	f.gotOrder = ord
	if f.fn != nil {
		return f.fn(ord)
	}

	out := &printapi.Outcome{OrderNumber: "42", StoreNum: ord.StoreNum, Rejected: map[string]string{}}
	for _, a := range ord.Assets {
		out.Accepted = append(out.Accepted, a.DisplayPath)
	}
	return out, nil
}

type fakeCoupons struct {
	err   error
	calls int
	code  string
}

func (f *fakeCoupons) ValidateCoupon(ctx context.Context, code string, items []printapi.ProductRef) (*printapi.CouponResult, error) {
	f.calls++
	f.code = code
	if f.err != nil {
		return nil, f.err
	}
	return &printapi.CouponResult{CouponCode: code, Discount: "25%"}, nil
}

func writeJPEG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestRunSuccess(t *testing.T) {
	dir := t.TempDir()
	writeJPEG(t, filepath.Join(dir, "a.jpg"))
	writeJPEG(t, filepath.Join(dir, "b.jpg"))

	sub := &fakeSubmitter{}
	p := &Pipeline{Client: sub, Cleanup: cleanup.New(), AffiliateID: "aff"}

	res, err := p.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != order.StatusSuccess {
		t.Errorf("expected StatusSuccess, got %v", res.Status)
	}
	if sub.calls != 1 {
		t.Errorf("expected exactly 1 submission, got %d", sub.calls)
	}
	if len(sub.gotOrder.Assets) != 2 {
		t.Errorf("expected 2 assets submitted, got %d", len(sub.gotOrder.Assets))
	}

	// Staged copies are released before Run returns.
	for _, a := range sub.gotOrder.Assets {
		if _, err := os.Stat(a.LocalPath); !os.IsNotExist(err) {
			t.Errorf("staged file %s not cleaned up", a.LocalPath)
		}
	}
}

func TestRunNoValidImagesSkipsNetwork(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.jpg"), []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}

	sub := &fakeSubmitter{}
	resolveCalled := false
	p := &Pipeline{
		Client:  sub,
		Cleanup: cleanup.New(),
		ResolveStore: func(ctx context.Context) (*config.Store, error) {
			resolveCalled = true
			return nil, nil
		},
	}

	res, err := p.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != order.StatusFailure {
		t.Errorf("expected StatusFailure, got %v", res.Status)
	}
	if res.ExitCode() != 1 {
		t.Errorf("expected exit code 1, got %d", res.ExitCode())
	}
	if sub.calls != 0 {
		t.Error("no network call is allowed when nothing passed validation")
	}
	if resolveCalled {
		t.Error("store search must not run when nothing passed validation")
	}
	if len(res.Failures) != 1 || res.Failures[0].Source != order.SourceLocal {
		t.Errorf("expected the local rejection to be reported, got %+v", res.Failures)
	}
}

func TestRunMissingPath(t *testing.T) {
	p := &Pipeline{Client: &fakeSubmitter{}, Cleanup: cleanup.New()}

	_, err := p.Run(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected error for missing path")
	}
	var pathErr *imaging.PathError
	if !errors.As(err, &pathErr) {
		t.Errorf("expected *PathError, got %T: %v", err, err)
	}
}

func TestRunSubmitErrorIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeJPEG(t, filepath.Join(dir, "a.jpg"))

	sub := &fakeSubmitter{fn: func(*printapi.Order) (*printapi.Outcome, error) {
		return nil, &printapi.APIError{Kind: printapi.KindAuth, Message: "Invalid API credentials. Please check your config file"}
	}}
	p := &Pipeline{Client: sub, Cleanup: cleanup.New()}

	_, err := p.Run(context.Background(), dir)
	if err == nil {
		t.Fatal("expected submission error to propagate")
	}
	var apiErr *printapi.APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != printapi.KindAuth {
		t.Errorf("expected auth APIError, got %v", err)
	}

	// Staged copies are released even when the submission fails.
	for _, a := range sub.gotOrder.Assets {
		if _, err := os.Stat(a.LocalPath); !os.IsNotExist(err) {
			t.Errorf("staged file %s not cleaned up", a.LocalPath)
		}
	}
}

func TestRunPartialOutcome(t *testing.T) {
	dir := t.TempDir()
	writeJPEG(t, filepath.Join(dir, "good.jpg"))
	writeJPEG(t, filepath.Join(dir, "sad.jpg"))

	sub := &fakeSubmitter{fn: func(ord *printapi.Order) (*printapi.Outcome, error) {
		out := &printapi.Outcome{OrderNumber: "9", StoreNum: ord.StoreNum, Rejected: map[string]string{}}
		for _, a := range ord.Assets {
			if strings.Contains(a.DisplayPath, "sad") {
				out.Rejected[a.DisplayPath] = "Upload failed with status 400"
				continue
			}
			out.Accepted = append(out.Accepted, a.DisplayPath)
		}
		return out, nil
	}}
	p := &Pipeline{Client: sub, Cleanup: cleanup.New()}

	res, err := p.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != order.StatusPartial {
		t.Errorf("expected StatusPartial, got %v", res.Status)
	}
	if res.ExitCode() != 0 {
		t.Errorf("partial order still exists, expected exit code 0, got %d", res.ExitCode())
	}
	if len(res.Failures) != 1 || res.Failures[0].Source != order.SourceService {
		t.Errorf("expected one service failure, got %+v", res.Failures)
	}
}

func TestRunCouponCheckedBeforeSubmit(t *testing.T) {
	dir := t.TempDir()
	writeJPEG(t, filepath.Join(dir, "a.jpg"))

	coupons := &fakeCoupons{err: &printapi.APIError{Kind: printapi.KindRejected, Message: "API error 604: Invalid coupon code"}}
	sub := &fakeSubmitter{}
	p := &Pipeline{
		Client:  sub,
		Coupons: coupons,
		Cleanup: cleanup.New(),
		Opts:    order.Options{CouponCode: "BOGUS"},
	}

	_, err := p.Run(context.Background(), dir)
	if err == nil {
		t.Fatal("expected invalid coupon to abort the order")
	}
	if coupons.calls != 1 {
		t.Errorf("expected 1 coupon check, got %d", coupons.calls)
	}
	if sub.calls != 0 {
		t.Error("order must not be submitted after a failed coupon check")
	}
}

func TestRunCouponCarriedIntoOrder(t *testing.T) {
	dir := t.TempDir()
	writeJPEG(t, filepath.Join(dir, "a.jpg"))

	coupons := &fakeCoupons{}
	sub := &fakeSubmitter{}
	p := &Pipeline{
		Client:  sub,
		Coupons: coupons,
		Cleanup: cleanup.New(),
		Opts:    order.Options{CouponCode: "SAVE25"},
	}

	if _, err := p.Run(context.Background(), dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coupons.code != "SAVE25" {
		t.Errorf("unexpected coupon sent to validation: %s", coupons.code)
	}
	if sub.gotOrder.CouponCode != "SAVE25" {
		t.Errorf("coupon missing from submitted order: %+v", sub.gotOrder)
	}
}

func TestRunStoreResolverApplied(t *testing.T) {
	dir := t.TempDir()
	writeJPEG(t, filepath.Join(dir, "a.jpg"))

	sub := &fakeSubmitter{}
	p := &Pipeline{
		Client:  sub,
		Cleanup: cleanup.New(),
		ResolveStore: func(ctx context.Context) (*config.Store, error) {
			return &config.Store{StoreNum: "7777", PromiseTime: "01-02-2026 10:00 AM"}, nil
		},
	}

	if _, err := p.Run(context.Background(), dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.gotOrder.StoreNum != "7777" {
		t.Errorf("expected resolved store, got %s", sub.gotOrder.StoreNum)
	}
}

func TestRunStoreResolverFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeJPEG(t, filepath.Join(dir, "a.jpg"))

	sub := &fakeSubmitter{}
	p := &Pipeline{
		Client:  sub,
		Cleanup: cleanup.New(),
		ResolveStore: func(ctx context.Context) (*config.Store, error) {
			return nil, errors.New("store service down")
		},
		Opts: order.Options{Store: &config.Store{StoreNum: "2222"}},
	}

	res, err := p.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("a failed store search must not abort the order: %v", err)
	}
	if res.Status != order.StatusSuccess {
		t.Errorf("expected StatusSuccess, got %v", res.Status)
	}
	if sub.gotOrder.StoreNum != "2222" {
		t.Errorf("expected configured store, got %s", sub.gotOrder.StoreNum)
	}
}
