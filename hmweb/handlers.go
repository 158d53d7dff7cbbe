// Copyright 2026 The Heatmap Multiplexer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ric-evans/heatmap-multiplexer/dataset"
	"github.com/ric-evans/heatmap-multiplexer/heatmap"
)

// handler owns the single-session engine. Computations are
// serialized; when several specification edits queue up, only the
// freshest one computes and the stale ones are rejected so their
// results can never overwrite a newer grid.
type handler struct {
	mu  sync.Mutex
	eng *heatmap.Engine
	gen atomic.Int64
}

func newHandler(ds *dataset.Dataset) *handler {
	return &handler{eng: heatmap.New(ds)}
}

func (h *handler) register(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/columns", h.columns)
	api.GET("/spec", h.defaultSpec)
	api.POST("/heatmap", h.heatmap)
}

func (h *handler) columns(c echo.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return c.JSON(http.StatusOK, h.eng.Columns())
}

func (h *handler) defaultSpec(c echo.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return c.JSON(http.StatusOK, h.eng.SuggestDefault())
}

func (h *handler) heatmap(c echo.Context) error {
	var spec heatmap.Specification
	if err := c.Bind(&spec); err != nil {
		return err
	}

	gen := h.gen.Add(1)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.gen.Load() != gen {
		// A newer specification arrived while this one was
		// queued; its grid would be stale on arrival.
		return c.NoContent(http.StatusConflict)
	}

	grid, err := h.eng.Compute(c.Request().Context(), &spec)
	if errors.Is(err, heatmap.ErrInvalidSpec) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, grid)
}
