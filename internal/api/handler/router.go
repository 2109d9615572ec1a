package handler

import (
	"jitutong/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the whole API surface. Each group picks the gate
// matching its spec: public, optional-user, required-user, wiki-editor, or
// admin.
func (h *Handler) RegisterRoutes(r *gin.Engine, guard *auth.Guard) {
	r.Static("/"+h.Cfg.UploadDir, h.Cfg.UploadDir)

	api := r.Group("/api")

	user := api.Group("/user")
	{
		user.POST("/register", h.Register)
		user.POST("/login", h.Login)

		me := user.Group("", guard.RequireUser())
		{
			me.GET("/profile", h.GetProfile)
			me.PUT("/profile", h.UpdateProfile)

			me.GET("/favorites", h.ListFavorites)
			me.POST("/favorites", h.AddFavorite)
			me.DELETE("/favorites/:buildingId", h.RemoveFavorite)
			me.GET("/favorites/:buildingId/status", h.FavoriteStatus)

			me.GET("/history", h.ListHistory)
			me.POST("/history", h.AddHistory)
			me.DELETE("/history", h.ClearHistory)

			me.GET("/messages", h.ListMessages)
			me.GET("/messages/unread-count", h.UnreadMessageCount)
			me.PUT("/messages/read-all", h.MarkAllMessagesRead)
			me.PUT("/messages/:id/read", h.MarkMessageRead)
			me.DELETE("/messages/clear", h.ClearMessages)
			me.DELETE("/messages/:id", h.DeleteMessage)

			me.GET("/comments", h.MyComments)
		}
	}

	reviews := api.Group("/reviews")
	{
		reviews.GET("", guard.OptionalUser(), h.ListLocationReviews)
		reviews.POST("", guard.RequireUser(), h.CreateReview)
		reviews.POST("/:id/like", guard.RequireUser(), h.ToggleLike)
		reviews.POST("/:id/replies", guard.RequireUser(), h.CreateReply)
		reviews.POST("/:id/report", guard.RequireUser(), h.ReportReview)
		reviews.POST("/replies/:id/report", guard.RequireUser(), h.ReportReply)
	}

	location := api.Group("/location")
	{
		location.GET("/map", h.MapBuildings)
		location.GET("/wiki", h.ListWikiLocations)
		location.GET("/wiki/:id", guard.OptionalUser(), h.GetWikiLocation)
		location.POST("/wiki", guard.RequireWikiEditor(), h.CreateWikiLocation)
		location.PUT("/wiki/:id", guard.RequireWikiEditor(), h.UpdateWikiLocation)
		location.POST("/wiki/suggestions", guard.OptionalUser(), h.SubmitSuggestion)
	}

	search := api.Group("/search")
	{
		search.GET("", guard.OptionalUser(), h.Search)
		search.GET("/hot", h.HotKeywords)
	}

	routes := api.Group("/routes", guard.RequireUser())
	{
		routes.POST("", h.SaveRoute)
		routes.GET("", h.ListRoutes)
		routes.PUT("/:id", h.RenameRoute)
		routes.DELETE("/:id", h.DeleteRoute)
	}

	admin := api.Group("/admin")
	{
		admin.POST("/login", h.AdminLogin)

		console := admin.Group("", guard.RequireAdmin())
		{
			console.GET("/info", h.AdminInfo)
			console.GET("/stats", h.AdminStats)

			account := console.Group("/account")
			{
				account.GET("", h.AdminListUsers)
				account.PUT("/permission", h.AdminUpdatePermission)
				account.POST("/:id/ban", h.AdminBanUser)
				account.POST("/:id/unban", h.AdminUnbanUser)
				account.DELETE("/:id", h.AdminDeleteUser)
				account.PUT("/:id", h.AdminUpdateUser)
				account.GET("/:id/logs", h.AdminUserLogs)
				account.POST("/:id/avatar", h.AdminUploadAvatar)
			}

			content := console.Group("/content")
			{
				content.GET("/reviews", h.AdminListContent)
				content.GET("/reviews/:id", h.AdminContentDetail)
				content.POST("/reviews/:id/approve", h.AdminApproveContent)
				content.POST("/reviews/:id/reject", h.AdminRejectContent)
				content.POST("/reviews/batch", h.AdminBatchContent)
				content.POST("/reviews/batch-delete", h.AdminBatchDeleteContent)
				content.DELETE("/suggestions/:id", h.AdminDeleteSuggestion)

				content.GET("/review-reports", h.AdminListReports)
				content.GET("/review-reports/:id", h.AdminReportDetail)
				content.POST("/review-reports/:id/resolve", h.AdminResolveReport)
				content.POST("/review-reports/:id/dismiss", h.AdminDismissReport)
			}

			locations := console.Group("/locations")
			{
				locations.GET("", h.AdminListLocations)
				locations.POST("", h.AdminCreateLocation)
				locations.PUT("/:id", h.AdminUpdateLocation)
				locations.DELETE("/:id", h.AdminDeleteLocation)
				locations.POST("/batch-delete", h.AdminBatchDeleteLocations)
				locations.POST("/import", h.AdminImportLocations)
				locations.POST("/import-file", h.AdminImportLocationFile)
				locations.GET("/export", h.AdminExportLocations)
			}

			analytics := console.Group("/analytics")
			{
				analytics.GET("/overview", h.AnalyticsOverview)
				analytics.GET("/user-activity", h.AnalyticsUserActivity)
				analytics.GET("/top-locations", h.AnalyticsTopLocations)
				analytics.GET("/review-trends", h.AnalyticsReviewTrends)
				analytics.GET("/search-trends", h.AnalyticsSearchTrends)
			}

			console.GET("/settings", h.AdminGetSettings)
			console.PUT("/settings", h.AdminPutSettings)
		}
	}
}
