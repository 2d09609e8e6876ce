package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/internal/services"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/utils"
)

type ProjectionController struct {
	projectionService services.ProjectionServiceInterface
	logger            *zap.Logger
}

func NewProjectionController(projectionService services.ProjectionServiceInterface, logger *zap.Logger) *ProjectionController {
	return &ProjectionController{
		projectionService: projectionService,
		logger:            logger,
	}
}

func (c *ProjectionController) GetBoard(ctx echo.Context) error {
	actor, err := utils.GetActorFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.projectionService.Board(ctx.Request().Context(), actor)
	if err != nil {
		c.logger.Error("GetBoard: ошибка при построении доски", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Доска успешно построена", http.StatusOK)
}

// GetCalendar отдаёт плановые заявки за период ?from=2026-08-01&to=2026-08-31.
// Без параметров берётся текущий месяц.
func (c *ProjectionController) GetCalendar(ctx echo.Context) error {
	actor, err := utils.GetActorFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	from, to, err := parseCalendarRange(ctx.QueryParam("from"), ctx.QueryParam("to"))
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат периода, ожидается YYYY-MM-DD", err),
			c.logger)
	}

	res, err := c.projectionService.Calendar(ctx.Request().Context(), actor, from, to)
	if err != nil {
		c.logger.Error("GetCalendar: ошибка при построении календаря", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Календарь успешно построен", http.StatusOK)
}

func parseCalendarRange(fromStr, toStr string) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)

	if fromStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", fromStr, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if toStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", toStr, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		// Верхняя граница включает весь день.
		to = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return from, to, nil
}
