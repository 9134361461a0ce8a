package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrPlanNoEncontrado is returned when the catalog does not know the plan.
var ErrPlanNoEncontrado = errors.New("catalogo: plan no encontrado")

// ServicioPlantilla is one entry of a plan's service template.
type ServicioPlantilla struct {
	Nombre string `json:"nombre"`
	Orden  int    `json:"orden"`
}

type plantillaResponse struct {
	PlanID    string              `json:"plan_id"`
	Servicios []ServicioPlantilla `json:"servicios"`
}

// CatalogoClient reads plan templates from the external catalog service.
// Responses are cached in Redis under plantilla:{plan_id}; a nil Redis client
// disables the cache.
type CatalogoClient struct {
	baseURL    string
	httpClient *http.Client
	rdb        *redis.Client
	ttl        time.Duration
	cb         *CircuitBreaker
}

func NewCatalogoClient(baseURL string, timeout, ttl time.Duration, rdb *redis.Client, cb *CircuitBreaker) *CatalogoClient {
	if cb == nil {
		cb = NewCircuitBreaker(DefaultCBConfig("catalogo"))
	}
	return &CatalogoClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		rdb:        rdb,
		ttl:        ttl,
		cb:         cb,
	}
}

// Breaker exposes the breaker so /health can report it.
func (c *CatalogoClient) Breaker() *CircuitBreaker { return c.cb }

func cacheKeyPlantilla(planID string) string { return "plantilla:" + planID }

// ServiciosDelPlan returns the ordered service template of planID.
func (c *CatalogoClient) ServiciosDelPlan(ctx context.Context, planID string) ([]ServicioPlantilla, error) {
	if cached, ok := c.leerCache(ctx, planID); ok {
		return cached, nil
	}

	var servicios []ServicioPlantilla
	err := c.cb.Execute(func() error {
		var ferr error
		servicios, ferr = c.fetch(ctx, planID)
		// An unknown plan is an answer, not an outage.
		if errors.Is(ferr, ErrPlanNoEncontrado) {
			return nil
		}
		return ferr
	})
	if err != nil {
		return nil, err
	}
	if servicios == nil {
		return nil, ErrPlanNoEncontrado
	}

	c.escribirCache(ctx, planID, servicios)
	return servicios, nil
}

func (c *CatalogoClient) fetch(ctx context.Context, planID string) ([]ServicioPlantilla, error) {
	endpoint := fmt.Sprintf("%s/planes/%s/servicios", c.baseURL, url.PathEscape(planID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("catalogo: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalogo: unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrPlanNoEncontrado
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("catalogo: returned %d", resp.StatusCode)
	}

	var body plantillaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("catalogo: decode response: %w", err)
	}
	if body.Servicios == nil {
		body.Servicios = []ServicioPlantilla{}
	}
	return body.Servicios, nil
}

func (c *CatalogoClient) leerCache(ctx context.Context, planID string) ([]ServicioPlantilla, bool) {
	if c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, cacheKeyPlantilla(planID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("plan_id", planID).Msg("catalogo: cache read failed")
		}
		return nil, false
	}
	var servicios []ServicioPlantilla
	if err := json.Unmarshal(raw, &servicios); err != nil {
		return nil, false
	}
	return servicios, true
}

func (c *CatalogoClient) escribirCache(ctx context.Context, planID string, servicios []ServicioPlantilla) {
	if c.rdb == nil || c.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(servicios)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKeyPlantilla(planID), raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("plan_id", planID).Msg("catalogo: cache write failed")
	}
}
