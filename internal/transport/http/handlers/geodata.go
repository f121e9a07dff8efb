package http_handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/AnishBandal/deforestation-monitoring-tool/internal/domain"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/infrastructure/geodata"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/logger"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/transport/http/response"
)

// GeodataFetcher is what GetData needs from the upstream client.
type GeodataFetcher interface {
	FetchMap(ctx context.Context, q geodata.Query) ([]byte, error)
}

type GeodataHandler struct {
	client GeodataFetcher
}

func NewGeodataHandler(client GeodataFetcher) *GeodataHandler {
	return &GeodataHandler{client: client}
}

// GetData handles GET /getData?latitude&longitude&distance&year and
// proxies the upstream HTML fragment through unchanged. Sits behind the
// page gate.
func (h *GeodataHandler) GetData(w http.ResponseWriter, r *http.Request) {
	q, err := parseGeodataQuery(r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	body, err := h.client.FetchMap(r.Context(), q)
	if err != nil {
		logger.WithCtx(r.Context()).Error().Err(err).Msg("geodata fetch failed")
		response.WriteError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func parseGeodataQuery(r *http.Request) (geodata.Query, error) {
	vals := r.URL.Query()

	lat, err := strconv.ParseFloat(vals.Get("latitude"), 64)
	if err != nil || lat < -90 || lat > 90 {
		return geodata.Query{}, domain.ErrInvalidField("latitude", "must be a number in [-90, 90]")
	}

	lon, err := strconv.ParseFloat(vals.Get("longitude"), 64)
	if err != nil || lon < -180 || lon > 180 {
		return geodata.Query{}, domain.ErrInvalidField("longitude", "must be a number in [-180, 180]")
	}

	dist, err := strconv.ParseFloat(vals.Get("distance"), 64)
	if err != nil || dist <= 0 {
		return geodata.Query{}, domain.ErrInvalidField("distance", "must be a positive number of kilometers")
	}

	year, err := strconv.Atoi(vals.Get("year"))
	if err != nil || year < earliestDataYear || year > time.Now().Year() {
		return geodata.Query{}, domain.ErrInvalidField("year", "out of range")
	}

	return geodata.Query{
		Latitude:  lat,
		Longitude: lon,
		Distance:  dist,
		Year:      year,
	}, nil
}
