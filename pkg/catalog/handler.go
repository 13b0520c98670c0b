package catalog

import (
	"net/http"

	"github.com/co2tracker/co2tracker/internal/rest"
	log "github.com/sirupsen/logrus"
)

type TransportTypeDTO struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

type TransportDTO struct {
	Id    int                `json:"id"`
	Name  string             `json:"name"`
	Types []TransportTypeDTO `json:"types"`
}

type CatalogDTO struct {
	Transports  []TransportDTO `json:"transports"`
	EnergyTypes []string       `json:"energyTypes"`
	Locations   []string       `json:"locations"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetCatalog godoc
// @Summary Get reference data
// @Description Transports with their types, clean energy types and locations used by the footprint forms
// @Tags Catalog
// @Produce json
// @Success 200 {object} CatalogDTO
// @Router /api/catalog [get]
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	log.Trace("Getting catalog")

	catalog, err := h.service.GetCatalog(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, catalogToDTO(catalog))
}

func catalogToDTO(catalog Catalog) CatalogDTO {
	dto := CatalogDTO{
		Transports:  make([]TransportDTO, 0, len(catalog.Transports)),
		EnergyTypes: make([]string, 0, len(catalog.EnergyTypes)),
		Locations:   make([]string, 0, len(catalog.Locations)),
	}
	for _, group := range catalog.Transports {
		transport := TransportDTO{
			Id:    group.Transport.Id,
			Name:  group.Transport.Name,
			Types: make([]TransportTypeDTO, 0, len(group.Types)),
		}
		for _, t := range group.Types {
			transport.Types = append(transport.Types, TransportTypeDTO{Id: t.Id, Name: t.Name})
		}
		dto.Transports = append(dto.Transports, transport)
	}
	for _, e := range catalog.EnergyTypes {
		dto.EnergyTypes = append(dto.EnergyTypes, e.Name)
	}
	for _, l := range catalog.Locations {
		dto.Locations = append(dto.Locations, l.Name)
	}
	return dto
}
