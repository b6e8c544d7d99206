package handler

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/response"
	"Atelier/internal/service"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogSvc service.CatalogService
}

func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

func (s *CatalogHandler) CreateModel(c *gin.Context) {
	s.create(c, model.EntitySourceModel)
}

func (s *CatalogHandler) CreateInterior(c *gin.Context) {
	s.create(c, model.EntitySourceInterior)
}

func (s *CatalogHandler) DeleteModel(c *gin.Context) {
	s.delete(c, model.EntitySourceModel)
}

func (s *CatalogHandler) DeleteInterior(c *gin.Context) {
	s.delete(c, model.EntitySourceInterior)
}

func (s *CatalogHandler) create(c *gin.Context, source model.EntitySource) {
	var req dto.EntityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	entity, err := s.catalogSvc.CreateEntity(c.Request.Context(), source, c.GetUint64(consts.UserIDKey), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entity)
}

func (s *CatalogHandler) delete(c *gin.Context, source model.EntitySource) {
	id, ok := paramID(c, "id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := s.catalogSvc.DeleteEntity(c.Request.Context(), source, id, c.GetUint64(consts.UserIDKey)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
