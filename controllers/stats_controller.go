package controllers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"friendgraph-api/services"
	"friendgraph-api/utils"
)

type StatsController struct {
	statsService *services.StatsService
	log          *zap.Logger
}

func NewStatsController(statsService *services.StatsService, log *zap.Logger) *StatsController {
	return &StatsController{statsService: statsService, log: log}
}

func (sc *StatsController) GetStats(c *gin.Context) {
	stats, err := sc.statsService.GetStats(c.Request.Context())
	if err != nil {
		utils.SendAppError(c, sc.log, err)
		return
	}
	utils.SendSuccess(c, "Stats retrieved successfully", stats)
}

func (sc *StatsController) GetUserStats(c *gin.Context) {
	stats, err := sc.statsService.GetUserStats(c.Request.Context())
	if err != nil {
		utils.SendAppError(c, sc.log, err)
		return
	}
	utils.SendSuccess(c, "User stats retrieved successfully", stats)
}

func (sc *StatsController) GetFriendshipStats(c *gin.Context) {
	stats, err := sc.statsService.GetFriendshipStats(c.Request.Context())
	if err != nil {
		utils.SendAppError(c, sc.log, err)
		return
	}
	utils.SendSuccess(c, "Friendship stats retrieved successfully", stats)
}
