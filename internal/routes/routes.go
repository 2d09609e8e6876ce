package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/controllers"
	"gearguard/internal/repositories"
	"gearguard/internal/services"
	"gearguard/pkg/config"
	"gearguard/pkg/middleware"
	"gearguard/pkg/service"
)

// InitRouter собирает весь граф зависимостей и навешивает маршруты.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, logger *zap.Logger, cfg *config.Config) {
	logger.Info("InitRouter: начало создания маршрутов")

	api := e.Group("/api")
	txManager := repositories.NewTxManager(dbConn)
	gatekeeper := authz.NewGatekeeper()

	// --- Репозитории ---
	userRepo := repositories.NewUserRepository(dbConn)
	teamRepo := repositories.NewTeamRepository(dbConn, txManager)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn)
	requestRepo := repositories.NewRequestRepository(dbConn)
	dashboardRepo := repositories.NewDashboardRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- Сервисы ---
	authService := services.NewAuthService(userRepo, jwtSvc, logger)
	requestService := services.NewRequestService(requestRepo, equipmentRepo, txManager, gatekeeper, logger)
	projectionService := services.NewProjectionService(requestRepo, logger)
	dashboardService := services.NewDashboardService(dashboardRepo, requestRepo, cacheRepo, cfg.Dashboard.CacheTTL, logger)
	equipmentService := services.NewEquipmentService(equipmentRepo, gatekeeper, logger)
	teamService := services.NewTeamService(teamRepo, gatekeeper, logger)
	reportService := services.NewReportService(requestRepo, logger)

	// --- Контроллеры ---
	authCtrl := controllers.NewAuthController(authService, logger)
	requestCtrl := controllers.NewRequestController(requestService, logger)
	projectionCtrl := controllers.NewProjectionController(projectionService, logger)
	dashboardCtrl := controllers.NewDashboardController(dashboardService, logger)
	equipmentCtrl := controllers.NewEquipmentController(equipmentService, logger)
	teamCtrl := controllers.NewTeamController(teamService, logger)
	reportCtrl := controllers.NewReportController(reportService, logger)

	// --- Маршруты ---
	authMW := middleware.NewAuthMiddleware(jwtSvc, userRepo, logger)
	secure := api.Group("", authMW.Auth)

	runAuthRouter(api, authCtrl)
	runRequestRouter(secure, requestCtrl, projectionCtrl, dashboardCtrl)
	runEquipmentRouter(secure, equipmentCtrl)
	runTeamRouter(secure, teamCtrl)
	runReportRouter(secure, reportCtrl)

	logger.Info("InitRouter: создание маршрутов завершено")
}

func runAuthRouter(g *echo.Group, ctrl *controllers.AuthController) {
	g.POST("/auth/login", ctrl.Login)
	g.POST("/auth/refresh", ctrl.Refresh)
}

func runRequestRouter(g *echo.Group, requestCtrl *controllers.RequestController, projectionCtrl *controllers.ProjectionController, dashboardCtrl *controllers.DashboardController) {
	g.GET("/requests", requestCtrl.GetRequests)
	g.POST("/requests", requestCtrl.CreateRequest)
	g.GET("/requests/board", projectionCtrl.GetBoard)
	g.GET("/requests/calendar", projectionCtrl.GetCalendar)
	g.GET("/requests/dashboard", dashboardCtrl.GetStats)
	g.GET("/requests/:id", requestCtrl.FindRequest)
	g.PATCH("/requests/:id/status", requestCtrl.UpdateRequestStatus)
}

func runEquipmentRouter(g *echo.Group, ctrl *controllers.EquipmentController) {
	g.GET("/equipment", ctrl.GetEquipments)
	g.GET("/equipment/:id", ctrl.FindEquipment)
	g.POST("/equipment", ctrl.CreateEquipment)
	g.PUT("/equipment/:id", ctrl.UpdateEquipment)
}

func runTeamRouter(g *echo.Group, ctrl *controllers.TeamController) {
	g.GET("/teams", ctrl.GetTeams)
	g.GET("/teams/:id", ctrl.FindTeam)
	g.POST("/teams", ctrl.CreateTeam)
	g.PUT("/teams/:id", ctrl.UpdateTeam)
	g.DELETE("/teams/:id", ctrl.DeleteTeam)
}

func runReportRouter(g *echo.Group, ctrl *controllers.ReportController) {
	g.GET("/reports/requests", ctrl.ExportRequests)
}
