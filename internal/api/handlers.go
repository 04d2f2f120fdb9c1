package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/slidearchitect/internal/apperr"
	"github.com/slidearchitect/internal/generator"
	"github.com/slidearchitect/internal/pipeline"
	"github.com/slidearchitect/pkg/models"
)

// POST /api/v1/plans
func (s *Server) createPlan(c echo.Context) error {
	var req planRequest
	if err := c.Bind(&req); err != nil {
		return s.writeError(c, "", badBody(err))
	}
	images, err := decodeImages(req.TemplateImages)
	if err != nil {
		return s.writeError(c, req.Language, err)
	}

	res, err := s.pipeline.AnalyzeSlides(c.Request().Context(), pipeline.PlanRequest{
		Images:      images,
		UserContent: req.UserContent,
		Language:    language(req.Language),
		MaxSlides:   req.MaxSlides,
	})
	if err != nil {
		return s.writeError(c, req.Language, err)
	}
	return c.JSON(http.StatusOK, planResponse{Success: true, Plan: res.Plan, Trace: res.Trace})
}

// POST /api/v1/cloning-plans
func (s *Server) createCloningPlan(c echo.Context) error {
	var req cloningPlanRequest
	if err := c.Bind(&req); err != nil {
		return s.writeError(c, "", badBody(err))
	}
	tpl, err := decodeTemplate(req.PPTXBase64)
	if err != nil {
		return s.writeError(c, req.Language, err)
	}

	res, err := s.pipeline.GenerateCloningPlan(c.Request().Context(), pipeline.CloningRequest{
		Template:    tpl,
		UserContent: req.UserContent,
		Language:    language(req.Language),
	})
	if err != nil {
		return s.writeError(c, req.Language, err)
	}
	return c.JSON(http.StatusOK, cloningPlanResponse{
		Success:      true,
		Instructions: res.Instructions,
		Template:     res.Template,
		Trace:        res.Trace,
	})
}

// POST /api/v1/presentations
func (s *Server) createPresentation(c echo.Context) error {
	var req presentationRequest
	if err := c.Bind(&req); err != nil {
		return s.writeError(c, "", badBody(err))
	}
	tpl, err := decodeTemplate(req.PPTXBase64)
	if err != nil {
		return s.writeError(c, req.Language, err)
	}

	res, err := s.pipeline.GeneratePresentation(c.Request().Context(), pipeline.GenerateRequest{
		Template:     tpl,
		Instructions: req.Instructions,
	})
	if err != nil {
		return s.writeError(c, req.Language, err)
	}
	return c.JSON(http.StatusOK, presentationResponse{
		Success:    true,
		FileBase64: dataURL(generator.MediaType, res.File),
		FileName:   res.FileName,
		Trace:      res.Trace,
	})
}

// POST /api/v1/templates/inspect
func (s *Server) inspectTemplate(c echo.Context) error {
	var req inspectRequest
	if err := c.Bind(&req); err != nil {
		return s.writeError(c, "", badBody(err))
	}
	tpl, err := decodeTemplate(req.PPTXBase64)
	if err != nil {
		return s.writeError(c, req.Language, err)
	}

	res, err := s.pipeline.InspectTemplate(c.Request().Context(), tpl)
	if err != nil {
		return s.writeError(c, req.Language, err)
	}
	return c.JSON(http.StatusOK, inspectResponse{
		Success:  true,
		Template: res.Template,
		Summary:  res.Summary,
		Prompt:   res.Prompt,
	})
}

func badBody(err error) error {
	return apperr.Wrap(apperr.KindInvalidInput, err, "request body is not valid JSON")
}

func language(s string) models.Language {
	if s == "" {
		return ""
	}
	return models.ParseLanguage(s)
}
