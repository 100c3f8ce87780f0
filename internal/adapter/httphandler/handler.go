package httphandler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// GET / | /index.html?q=&category=&brand=   listing
// GET /cart.html                             cart
// GET /product.html?id=N                     detail
// GET /fragments/products?q=&category=&brand= filtered product list, no fetch
// POST /cart/items (form id, back)           add, 303 back?added=id
// POST /cart/items/{id}/delete               remove all, 303 /cart.html

const defaultBack = "/index.html"

type PagesHandler struct {
	catalog port.CatalogLoader
	carts   port.CartManager
	details port.ProductDetailer
	views   *Views
}

func RegisterPages(
	mux *http.ServeMux,
	catalog port.CatalogLoader,
	carts port.CartManager,
	details port.ProductDetailer,
	views *Views,
) {
	h := PagesHandler{catalog, carts, details, views}

	cs := controllers{
		PageListing: h.GetListing,
		PageCart:    h.GetCart,
		PageDetail:  h.GetDetail,
	}

	mux.HandleFunc("GET /", cs.dispatch)
	mux.HandleFunc("GET /fragments/products", h.GetProductsFragment)
	mux.HandleFunc("POST /cart/items", h.PostCartItem)
	mux.HandleFunc("POST /cart/items/{id}/delete", h.DeleteCartItem)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func (h PagesHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	const op = "PagesHandler.GetListing"
	log := slog.With("op", op)

	v := listingView{
		page:     page{Title: "Products", Notice: addedNotice(r)},
		Criteria: criteriaFromQuery(r.URL.Query()),
		Back:     r.URL.RequestURI(),
	}

	ps, err := h.catalog.LoadCatalog(r.Context())
	if err != nil {
		log.Error("failed to load catalog", "err", err)
		v.Error = msgConnectionError
		h.views.render(w, http.StatusOK, "listing", v)
		return
	}

	v.Categories = domain.Categories(ps)
	v.Brands = domain.Brands(ps)
	v.Products = domain.FilterProducts(ps, v.Criteria)
	h.views.render(w, http.StatusOK, "listing", v)
}

func (h PagesHandler) GetProductsFragment(w http.ResponseWriter, r *http.Request) {
	criteria := criteriaFromQuery(r.URL.Query())
	v := listingView{
		Products: h.catalog.FilterCatalog(criteria),
		Back:     listingURI(criteria),
	}
	h.views.render(w, http.StatusOK, "products", v)
}

func (h PagesHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "PagesHandler.GetCart"
	log := slog.With("op", op)

	v := cartView{page: page{Title: "Cart", Notice: addedNotice(r)}}

	s, err := h.carts.CartSummary(r.Context(), VisitorID(r.Context()))
	if err != nil {
		log.Error("failed to load cart", "err", err)
		v.Error = msgCartError
		h.views.render(w, http.StatusOK, "cart", v)
		return
	}

	v.Lines = s.Lines
	v.Total = s.Total
	h.views.render(w, http.StatusOK, "cart", v)
}

func (h PagesHandler) GetDetail(w http.ResponseWriter, r *http.Request) {
	const op = "PagesHandler.GetDetail"
	log := slog.With("op", op)

	v := detailView{
		page: page{Title: "Product", Notice: addedNotice(r)},
		Back: r.URL.RequestURI(),
	}

	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		log.Warn("invalid product id", "err", err)
		v.Error = msgConnectionError
		h.views.render(w, http.StatusBadRequest, "detail", v)
		return
	}

	d, err := h.details.ProductDetail(r.Context(), id)
	if err != nil {
		log.Error("failed to load product", "productID", id, "err", err)
		v.Error = msgConnectionError
		h.views.render(w, http.StatusBadGateway, "detail", v)
		return
	}

	v.Title = d.Title
	v.Product = d
	h.views.render(w, http.StatusOK, "detail", v)
}

func (h PagesHandler) PostCartItem(w http.ResponseWriter, r *http.Request) {
	const op = "PagesHandler.PostCartItem"
	log := slog.With("op", op)

	id, err := strconv.Atoi(r.PostFormValue("id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		log.Warn("invalid product id", "err", err)
		return
	}

	if _, err := h.carts.AddToCart(r.Context(), VisitorID(r.Context()), id); err != nil {
		http.Error(w, "failed to add to cart", http.StatusServiceUnavailable)
		log.Error("failed to add to cart", "err", err)
		return
	}

	log.Info("added to cart", "productID", id)
	http.Redirect(w, r, withAdded(safeBack(r.PostFormValue("back")), id), http.StatusSeeOther)
}

func (h PagesHandler) DeleteCartItem(w http.ResponseWriter, r *http.Request) {
	const op = "PagesHandler.DeleteCartItem"
	log := slog.With("op", op)

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		log.Warn("invalid product id", "err", err)
		return
	}

	if _, err := h.carts.RemoveFromCart(r.Context(), VisitorID(r.Context()), id); err != nil {
		http.Error(w, "failed to remove from cart", http.StatusServiceUnavailable)
		log.Error("failed to remove from cart", "err", err)
		return
	}

	log.Info("removed from cart", "productID", id)
	http.Redirect(w, r, "/cart.html", http.StatusSeeOther)
}

func criteriaFromQuery(q url.Values) domain.FilterCriteria {
	return domain.FilterCriteria{
		Name:     q.Get("q"),
		Category: q.Get("category"),
		Brand:    q.Get("brand"),
	}
}

func listingURI(c domain.FilterCriteria) string {
	if c.Empty() {
		return defaultBack
	}
	q := url.Values{}
	if c.Name != "" {
		q.Set("q", c.Name)
	}
	if c.Category != "" {
		q.Set("category", c.Category)
	}
	if c.Brand != "" {
		q.Set("brand", c.Brand)
	}
	return defaultBack + "?" + q.Encode()
}

func addedNotice(r *http.Request) string {
	if r.URL.Query().Has("added") {
		return msgProductAdded
	}
	return ""
}

// safeBack keeps redirects on this site.
func safeBack(back string) string {
	if !strings.HasPrefix(back, "/") || strings.HasPrefix(back, "//") ||
		strings.HasPrefix(back, "/\\") {
		return defaultBack
	}
	return back
}

func withAdded(back string, id int) string {
	u, err := url.Parse(back)
	if err != nil {
		u = &url.URL{Path: defaultBack}
	}
	q := u.Query()
	q.Set("added", strconv.Itoa(id))
	u.RawQuery = q.Encode()
	return u.String()
}
