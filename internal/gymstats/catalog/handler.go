package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/gymsignal/internal/telemetry/tracing"
	"github.com/2beens/gymsignal/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=catalog_test

type catalogRepo interface {
	Upsert(ctx context.Context, entry Entry) (*Entry, error)
	Get(ctx context.Context, name string) (*Entry, error)
	List(ctx context.Context, muscleGroup string) ([]Entry, error)
	Delete(ctx context.Context, name string) error
}

type DeleteEntryResponse struct {
	Deleted string `json:"deleted"`
}

type Handler struct {
	repo catalogRepo
}

func NewHandler(repo catalogRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/gymstats/catalog", handler.HandleUpsert).Methods("PUT", "OPTIONS").Name("upsert-catalog-entry")
	r.HandleFunc("/gymstats/catalog", handler.HandleList).Methods("GET", "OPTIONS").Name("list-catalog")
	r.HandleFunc("/gymstats/catalog/{name}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-catalog-entry")
	r.HandleFunc("/gymstats/catalog/{name}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-catalog-entry")
}

func (handler *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.upsert")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var entry Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		log.Tracef("upsert catalog entry, unmarshal json params: %s", err)
		http.Error(w, "upsert catalog entry failed", http.StatusBadRequest)
		return
	}
	if err := entry.Normalize(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	saved, err := handler.repo.Upsert(ctx, entry)
	if err != nil {
		log.Errorf("failed to upsert catalog entry [%s]: %s", entry.Name, err)
		http.Error(w, "error, failed to save catalog entry", http.StatusInternalServerError)
		return
	}

	savedJson, err := json.Marshal(saved)
	if err != nil {
		log.Errorf("failed to marshal catalog entry: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, savedJson, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.get")
	defer span.End()

	name := mux.Vars(r)["name"]
	entry, err := handler.repo.Get(ctx, name)
	if errors.Is(err, ErrEntryNotFound) {
		http.Error(w, "catalog entry not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to get catalog entry [%s]: %s", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	entryJson, err := json.Marshal(entry)
	if err != nil {
		log.Errorf("failed to marshal catalog entry: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, entryJson, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.list")
	defer span.End()

	entries, err := handler.repo.List(ctx, r.URL.Query().Get("muscle_group"))
	if err != nil {
		log.Errorf("list catalog: %s", err)
		http.Error(w, "failed to get catalog", http.StatusInternalServerError)
		return
	}

	entriesJson, err := json.Marshal(entries)
	if err != nil {
		log.Errorf("marshal catalog: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, entriesJson, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.delete")
	defer span.End()

	name := mux.Vars(r)["name"]
	err := handler.repo.Delete(ctx, name)
	switch {
	case errors.Is(err, ErrEntryNotFound):
		http.Error(w, "catalog entry not found", http.StatusNotFound)
		return
	case errors.Is(err, ErrEntryInUse):
		http.Error(w, "catalog entry has logged sets", http.StatusConflict)
		return
	case err != nil:
		log.Errorf("failed to delete catalog entry [%s]: %s", name, err)
		http.Error(w, "catalog entry not deleted", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteEntryResponse{Deleted: name})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}
