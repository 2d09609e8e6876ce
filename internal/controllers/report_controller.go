package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/internal/services"
	"gearguard/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{
		reportService: reportService,
		logger:        logger,
	}
}

// ExportRequests отдаёт xlsx-выгрузку заявок. Фильтры те же, что и в
// списке: ?filter[status]=New&filter[kind]=Preventive&search=...
func (c *ReportController) ExportRequests(ctx echo.Context) error {
	actor, err := utils.GetActorFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	report, err := c.reportService.RequestsReport(ctx.Request().Context(), actor, filter)
	if err != nil {
		c.logger.Error("ExportRequests: ошибка при формировании отчёта", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	filename := fmt.Sprintf("requests_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return ctx.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", report)
}
