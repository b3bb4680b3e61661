package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/baechuer/theatre-listing/internal/application/listing"
	"github.com/baechuer/theatre-listing/internal/domain"
	"github.com/baechuer/theatre-listing/internal/i18n"
	"github.com/baechuer/theatre-listing/internal/render"
	"github.com/baechuer/theatre-listing/internal/transport/http/dto"
	"github.com/baechuer/theatre-listing/internal/transport/http/response"
)

type EventsHandler struct {
	svc      *listing.Service
	renderer *render.Renderer
	tr       *i18n.Translator
}

func NewEventsHandler(svc *listing.Service, renderer *render.Renderer, tr *i18n.Translator) *EventsHandler {
	return &EventsHandler{svc: svc, renderer: renderer, tr: tr}
}

// HTML renders the listing fragment.
func (h *EventsHandler) HTML(w http.ResponseWriter, r *http.Request) {
	l, err := h.listing(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	opts, err := renderOptions(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	html, err := h.renderer.HTML(r.Context(), l, r.URL, opts)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.HTML(w, http.StatusOK, html)
}

// Meta renders schema.org microdata for the first `limit` events.
func (h *EventsHandler) Meta(w http.ResponseWriter, r *http.Request) {
	l, err := h.listing(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	html, err := h.renderer.Meta(r.Context(), l, render.MetaOptions{Limit: l.Filters().Limit})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.HTML(w, http.StatusOK, html)
}

func (h *EventsHandler) Months(w http.ResponseWriter, r *http.Request) {
	l, err := h.listing(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	months, err := l.Months(r.Context())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, months)
}

func (h *EventsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	l, err := h.listing(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	categories, err := l.Categories(r.Context())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToCategoryResps(categories))
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	l, err := h.listing(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	events, err := l.Get(r.Context())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToListResp(events, l.Now()))
}

// listing builds a request-scoped listing from the query string.
func (h *EventsHandler) listing(r *http.Request) (*listing.Listing, error) {
	q := r.URL.Query()
	f := listing.DefaultFilters()

	switch q.Get("scope") {
	case "", "upcoming":
	case "past":
		f.Upcoming, f.Past = false, true
	case "all":
		f.Upcoming, f.Past = false, false
	default:
		return nil, domain.ErrValidationMeta("invalid query param", map[string]string{
			"scope": "must be one of: upcoming, past, all",
		})
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, domain.ErrValidationMeta("invalid query param", map[string]string{
				"limit": "must be a non-negative integer",
			})
		}
		f.Limit = n
	}

	if v := q.Get("production"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return nil, domain.ErrValidationMeta("invalid query param", map[string]string{
				"production": "must be a positive integer",
			})
		}
		f.Production = id
	}

	l := h.svc.NewListing(f)
	keys := listing.QueryKeys{Month: h.tr.MonthKey(), Category: h.tr.CategoryKey()}
	if err := l.ApplyQuery(r.Context(), q, keys); err != nil {
		return nil, err
	}
	return l, nil
}

func renderOptions(r *http.Request) (render.Options, error) {
	q := r.URL.Query()
	opts := render.DefaultOptions()
	meta := map[string]string{}

	boolParam := func(key string, dst *bool) {
		v := q.Get(key)
		if v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			meta[key] = "must be a boolean"
			return
		}
		*dst = b
	}
	boolParam("grouped", &opts.Grouped)
	boolParam("thumbnail", &opts.Thumbnail)
	boolParam("tickets", &opts.Tickets)
	boolParam("paged", &opts.Paged)

	opts.Fields = csv(q.Get("fields"))
	opts.Hide = csv(q.Get("hide"))

	for _, p := range csv(q.Get("paginateby")) {
		switch p {
		case render.PaginateMonth, render.PaginateCategory:
			opts.PaginateBy = append(opts.PaginateBy, p)
		default:
			meta["paginateby"] = "must be a list of: month, category"
		}
	}

	if len(meta) > 0 {
		return opts, domain.ErrValidationMeta("invalid query param", meta)
	}
	return opts, nil
}

func csv(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
