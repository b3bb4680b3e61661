package handlers

import (
	"context"
	"net/http"

	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/theatre-listing/internal/transport/http/middleware"
	"github.com/baechuer/theatre-listing/internal/transport/http/response"
)

type Invalidator interface {
	Invalidate(ctx context.Context) (int, error)
}

type AdminHandler struct {
	cache Invalidator
}

func NewAdminHandler(cache Invalidator) *AdminHandler { return &AdminHandler{cache: cache} }

// PurgeCache drops every shared listing cache entry.
func (h *AdminHandler) PurgeCache(w http.ResponseWriter, r *http.Request) {
	n, err := h.cache.Invalidate(r.Context())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	zlog.Info().Str("user_id", middleware.UserID(r)).Int("keys", n).Msg("listing cache purged")
	response.Data(w, http.StatusOK, map[string]int{"purged": n})
}
