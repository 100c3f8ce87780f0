package httphandler

import (
	"net/http"
	"strings"
)

// A Page identifies one of the storefront pages.
type Page int

const (
	PageUnknown Page = iota
	PageListing
	PageCart
	PageDetail
)

func (p Page) String() string {
	switch p {
	case PageListing:
		return "listing"
	case PageCart:
		return "cart"
	case PageDetail:
		return "detail"
	default:
		return "unknown"
	}
}

var pageSuffixes = []struct {
	suffix string
	page   Page
}{
	{"/index.html", PageListing},
	{"/cart.html", PageCart},
	{"/product.html", PageDetail},
}

// IdentifyPage maps a request path to its page by suffix.
func IdentifyPage(path string) Page {
	if path == "" || path == "/" {
		return PageListing
	}
	for _, s := range pageSuffixes {
		if strings.HasSuffix(path, s.suffix) {
			return s.page
		}
	}
	return PageUnknown
}

type controllers map[Page]http.HandlerFunc

func (cs controllers) dispatch(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := cs[IdentifyPage(r.URL.Path)]
	if !ok {
		http.NotFound(w, r)
		return
	}
	ctrl(w, r)
}
