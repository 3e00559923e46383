package controllers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"friendgraph-api/apperror"
	"friendgraph-api/middleware"
	"friendgraph-api/models"
	"friendgraph-api/services"
	"friendgraph-api/utils"
)

type FriendController struct {
	friendService *services.FriendService
	log           *zap.Logger
}

func NewFriendController(friendService *services.FriendService, log *zap.Logger) *FriendController {
	return &FriendController{
		friendService: friendService,
		log:           log,
	}
}

type AddFriendRequest struct {
	FriendUserID string `json:"friend_user_id" binding:"required"`
}

func (fc *FriendController) AddFriend(c *gin.Context) {
	var req AddFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "friend_user_id is required")
		return
	}

	friendship, err := fc.friendService.AddFriend(c.Request.Context(), middleware.GetUserID(c), req.FriendUserID)
	if err != nil {
		utils.SendAppError(c, fc.log, err)
		return
	}

	utils.SendCreated(c, "Friend request sent successfully", friendship)
}

func (fc *FriendController) GetFriends(c *gin.Context) {
	limit, page, err := paginationQuery(c)
	if err != nil {
		utils.SendAppError(c, fc.log, err)
		return
	}

	friends, err := fc.friendService.GetUserFriendList(c.Request.Context(), middleware.GetUserID(c), c.Query("search"), limit, page)
	if err != nil {
		utils.SendAppError(c, fc.log, err)
		return
	}

	utils.SendSuccess(c, "Friend list retrieved successfully", friends)
}

func (fc *FriendController) GetFriendRequests(c *gin.Context) {
	limit, page, err := paginationQuery(c)
	if err != nil {
		utils.SendAppError(c, fc.log, err)
		return
	}
	direction := models.PendingDirection(c.DefaultQuery("direction", string(models.PendingIncoming)))

	requests, err := fc.friendService.ListPendingRequests(c.Request.Context(), middleware.GetUserID(c), direction, limit, page)
	if err != nil {
		utils.SendAppError(c, fc.log, err)
		return
	}

	utils.SendSuccess(c, "Friend requests retrieved successfully", requests)
}

func (fc *FriendController) ConfirmFriendRequest(c *gin.Context) {
	friendship, err := fc.friendService.ConfirmFriendRequest(c.Request.Context(), middleware.GetUserID(c), c.Param("friendship_id"))
	if err != nil {
		utils.SendAppError(c, fc.log, err)
		return
	}

	utils.SendSuccess(c, "Friend request confirmed successfully", friendship)
}

func (fc *FriendController) RemoveFriend(c *gin.Context) {
	friendship, err := fc.friendService.RemoveFriend(c.Request.Context(), middleware.GetUserID(c), c.Param("friendship_id"))
	if err != nil {
		utils.SendAppError(c, fc.log, err)
		return
	}

	utils.SendSuccess(c, "Friend removed successfully", friendship)
}

// paginationQuery reads limit and page; absent values are left for the
// service to default.
func paginationQuery(c *gin.Context) (limit, page int, err error) {
	if limit, err = intQuery(c, "limit"); err != nil {
		return 0, 0, err
	}
	if page, err = intQuery(c, "page"); err != nil {
		return 0, 0, err
	}
	return limit, page, nil
}

func intQuery(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.InvalidRequest(fmt.Sprintf("%s must be an integer", key))
	}
	return n, nil
}
