package main

import (
	"time"

	"github.com/KorAP/Koral-TreeCompare/ast"
	"github.com/KorAP/Koral-TreeCompare/config"
	"github.com/KorAP/Koral-TreeCompare/parser"
	"github.com/KorAP/Koral-TreeCompare/stats"
	"github.com/KorAP/Koral-TreeCompare/tester"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// compareRequest is the body of a single comparison
type compareRequest struct {
	ID            string      `json:"id"`
	CaseSensitive *bool       `json:"caseSensitive"`
	Expected      []*ast.Node `json:"expected"`
	Found         []*ast.Node `json:"found"`
}

// compareResponse is the result of a single comparison
type compareResponse struct {
	Matched   bool           `json:"matched"`
	Events    []tester.Event `json:"events"`
	Summary   *stats.Report  `json:"summary"`
	ErrorFree bool           `json:"errorFree"`
}

// suiteResponse is the result of a suite run
type suiteResponse struct {
	*tester.RunResult
	Events []tester.Event `json:"events"`
}

// setupFiberLogger configures fiber's logger middleware to integrate with zerolog
func setupFiberLogger() fiber.Handler {
	// Only enable HTTP request logging if log level is debug or info
	if zerolog.GlobalLevel() > zerolog.InfoLevel {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()

		// Determine log level based on status code
		logEvent := log.Info()
		if status >= 400 && status < 500 {
			logEvent = log.Warn()
		} else if status >= 500 {
			logEvent = log.Error()
		}

		logEvent.
			Int("status", status).
			Dur("latency", latency).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", c.IP()).
			Msg("HTTP request")

		return err
	}
}

func setupRoutes(app *fiber.App, suite *config.SuiteConfig) {
	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	app.Post("/compare", handleCompare(suite))
	app.Post("/suite", handleSuite(suite))
}

func handleCompare(suite *config.SuiteConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req compareRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON in request body",
			})
		}

		if err := parser.Validate(req.Expected); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "expected: " + err.Error(),
			})
		}
		if err := parser.Validate(req.Found); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "found: " + err.Error(),
			})
		}

		caseSensitive := suite.IsCaseSensitive()
		if req.CaseSensitive != nil {
			caseSensitive = *req.CaseSensitive
		}

		id := req.ID
		if id == "" {
			id = "compare"
		}

		sink := tester.NewMemorySink()
		runner := &tester.Runner{
			Source: tester.StaticSource{
				Expected: req.Expected,
				Found:    req.Found,
			},
			Sink:          sink,
			CaseSensitive: caseSensitive,
		}

		run, err := runner.Run(c.UserContext(), []config.TestCase{{ID: id}})
		if err != nil {
			log.Error().Err(err).Str("id", id).Msg("Failed to compare attributes")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.JSON(compareResponse{
			Matched:   run.Cases[0].Matched,
			Events:    sink.Events(),
			Summary:   run.Report,
			ErrorFree: run.ErrorFree,
		})
	}
}

func handleSuite(suite *config.SuiteConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sink := tester.NewMemorySink()
		runner := tester.NewRunner(tester.FileSource{}, sink, suite)

		run, err := runner.Run(c.UserContext(), suite.Cases)
		if err != nil {
			log.Error().Err(err).Msg("Failed to run suite")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.JSON(suiteResponse{
			RunResult: run,
			Events:    sink.Events(),
		})
	}
}
