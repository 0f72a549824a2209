package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/2beens/gymstats/internal/gymstats/analytics"
	"github.com/2beens/gymstats/internal/telemetry/tracing"
	"github.com/2beens/gymstats/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type nameResolver interface {
	Resolve(name string) (analytics.CatalogEntry, bool)
}

type ListResponse struct {
	Exercises []Exercise `json:"exercises"`
}

// ResolveResponse tells how an exercise name is attributed to muscle groups.
type ResolveResponse struct {
	Name      string                  `json:"name"`
	InCatalog bool                    `json:"inCatalog"`
	Key       string                  `json:"key,omitempty"`
	Primary   analytics.MuscleGroup   `json:"primary"`
	Secondary []analytics.MuscleGroup `json:"secondary,omitempty"`
}

type Handler struct {
	catalog  *Catalog
	resolver nameResolver
}

func NewHandler(catalog *Catalog, resolver nameResolver) *Handler {
	return &Handler{
		catalog:  catalog,
		resolver: resolver,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/gymstats/catalog/exercises", handler.HandleList).Methods("GET", "OPTIONS").Name("catalog-list")
	r.HandleFunc("/gymstats/catalog/resolve/{name}", handler.HandleResolve).Methods("GET", "OPTIONS").Name("catalog-resolve")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.catalog.list")
	defer span.End()

	exercises := handler.catalog.Exercises()
	if exercises == nil {
		exercises = []Exercise{}
	}
	span.SetAttributes(attribute.Int("exercises.count", len(exercises)))

	listJson, err := json.Marshal(ListResponse{Exercises: exercises})
	if err != nil {
		log.Errorf("marshal catalog exercises: %s", err)
		http.Error(w, "marshal catalog error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, listJson)
}

// HandleResolve shows the muscle attribution of a name, falling back to keyword matching
// for names the catalog does not know.
func (handler *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.catalog.resolve")
	defer span.End()

	name := mux.Vars(r)["name"]
	if name == "" {
		http.Error(w, "error, name empty", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("name", name))

	resp := ResolveResponse{Name: name}
	if entry, ok := handler.resolver.Resolve(name); ok {
		resp.InCatalog = true
		resp.Key = entry.Key
		resp.Primary = entry.Primary
		resp.Secondary = entry.Secondary
	} else {
		resp.Primary = analytics.FallbackMuscleGroup(name)
	}

	pkg.WriteJSON(w, resp, http.StatusOK)
}
