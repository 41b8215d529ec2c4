package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/coordenaplus/backend/internal/app/controllers"
	"github.com/coordenaplus/backend/internal/app/models"
	"github.com/coordenaplus/backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	reservationController *controllers.ReservationController,
	adminController *controllers.AdminController,
	pushController *controllers.PushController,
	coordinatorController *controllers.CoordinatorController,
	scheduleController *controllers.ScheduleController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// VAPID public key is needed before login to prime the service worker
	v1.GET("/push/public-key", pushController.PublicKey)

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.GET("/auth/me", authController.GetProfile)

		// Reservation routes
		reservations := authenticated.Group("/reservations")
		{
			reservations.GET("", reservationController.List)
			reservations.GET("/me", reservationController.ListOwn)
			reservations.GET("/:id", reservationController.GetByID)
			reservations.PUT("/:id", reservationController.Update)
			reservations.DELETE("/:id", reservationController.Delete)

			// Only professors and admins may book
			reservationsPrivileged := reservations.Group("")
			reservationsPrivileged.Use(authMiddleware.RoleRequired(string(models.RoleAdmin), string(models.RoleProfessor)))
			{
				reservationsPrivileged.POST("", reservationController.Create)
			}
		}

		// Push subscription routes
		push := authenticated.Group("/push")
		{
			push.POST("/subscribe", pushController.Subscribe)
			push.POST("/unsubscribe", pushController.Unsubscribe)
		}

		// Coordinator directory routes
		coordinators := authenticated.Group("/coordinators")
		{
			coordinators.GET("", coordinatorController.List)
			coordinators.GET("/:id", coordinatorController.GetByID)

			// Presence can be flipped by professors or admins
			coordinatorsPrivileged := coordinators.Group("")
			coordinatorsPrivileged.Use(authMiddleware.RoleRequired(string(models.RoleAdmin), string(models.RoleProfessor)))
			{
				coordinatorsPrivileged.PATCH("/:id/status", coordinatorController.UpdatePresence)
			}

			// Directory management is admin only
			coordinatorsAdmin := coordinators.Group("")
			coordinatorsAdmin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
			{
				coordinatorsAdmin.POST("", coordinatorController.Create)
				coordinatorsAdmin.PUT("/:id", coordinatorController.Update)
				coordinatorsAdmin.DELETE("/:id", coordinatorController.Delete)
			}
		}

		// Fixed weekly schedule routes
		schedule := authenticated.Group("/schedule")
		{
			schedule.GET("", scheduleController.List)

			scheduleAdmin := schedule.Group("")
			scheduleAdmin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
			{
				scheduleAdmin.POST("/import", scheduleController.Import)
			}
		}

		// Admin review queues
		admin := authenticated.Group("/admin")
		{
			// Account decisions are admin only
			adminUsers := admin.Group("/users")
			adminUsers.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
			{
				adminUsers.GET("/pending", adminController.GetPendingUsers)
				adminUsers.POST("/:id/approve", adminController.ApproveUser)
				adminUsers.POST("/:id/reject", adminController.RejectUser)
			}

			// Reservation decisions are shared with professors
			adminReservations := admin.Group("/reservations")
			adminReservations.Use(authMiddleware.RoleRequired(string(models.RoleAdmin), string(models.RoleProfessor)))
			{
				adminReservations.GET("/pending", adminController.GetPendingReservations)
				adminReservations.POST("/:id/approve", adminController.ApproveReservation)
				adminReservations.POST("/:id/reject", adminController.RejectReservation)
			}
		}
	}
}
