package httphandler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	msgProductAdded    = "Product added to cart!"
	msgConnectionError = "Could not load the products. " +
		"Check your connection and try again."
	msgCartError = "Could not load the cart. " +
		"Check your connection and try again."
)

type page struct {
	Title  string
	Notice string
}

type listingView struct {
	page
	Criteria   domain.FilterCriteria
	Categories []string
	Brands     []string
	Products   []domain.Product
	Error      string
	Back       string
}

type cartView struct {
	page
	Lines []domain.Product
	Total decimal.Decimal
	Error string
}

type detailView struct {
	page
	Product domain.ProductDetail
	Error   string
	Back    string
}

// Views renders the storefront pages.
type Views struct {
	tmpl *template.Template
}

func NewViews() (*Views, error) {
	const op = "NewViews"

	tmpl, err := template.New("storefront").
		Funcs(template.FuncMap{
			"price":  formatPrice,
			"eqFold": strings.EqualFold,
		}).
		ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Views{tmpl}, nil
}

func MustNewViews() *Views {
	v, err := NewViews()
	if err != nil {
		panic(err)
	}
	return v
}

// render executes the named template into a buffer first, so a failed
// execution never leaves a half written page.
func (v *Views) render(w http.ResponseWriter, status int, name string, data any) {
	const op = "Views.render"

	var buf bytes.Buffer
	if err := v.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("failed to render", "op", op, "template", name, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write response body", "op", op, "err", err)
	}
}

func formatPrice(d decimal.Decimal) string {
	return "R$" + d.StringFixed(2)
}
