package handler

import (
	"net/http"

	model "auction-market/internal/models"
	"auction-market/internal/repository"
	"auction-market/services/helpers"

	"github.com/gin-gonic/gin"
)

type StatsServiceInterface interface {
	Collect(user model.User) (repository.Stats, error)
}

type StatsHandler struct {
	service StatsServiceInterface
}

func NewStatsHandler(service StatsServiceInterface) *StatsHandler {
	return &StatsHandler{service: service}
}

// StatsHandler handles GET /admin/stats (admin)
func (h *StatsHandler) AdminStatsHandler(c *gin.Context) {
	user, ok := helpers.MustCurrentUser(c)
	if !ok {
		return
	}

	st, err := h.service.Collect(user)
	if err != nil {
		helpers.HandleServiceError(c, "AdminStatsHandler", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": st})
}
