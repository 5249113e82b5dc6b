package router

import (
	"github.com/wb-go/wbf/ginext"

	"github.com/aliskhannn/image-filter/internal/api/handlers/image"
	"github.com/aliskhannn/image-filter/internal/middleware"
	"github.com/aliskhannn/image-filter/internal/model"
)

func Setup(h *image.Handler) *ginext.Engine {
	r := ginext.New()

	r.Use(middleware.CORSMiddleware())
	r.Use(ginext.Logger())
	r.Use(ginext.Recovery())

	r.GET("/", h.Hello)

	api := r.Group("/api")

	api.POST("/upload_image", h.Upload)   // uploading image, starts a task
	api.GET("/image/:task_id/:id", h.Get) // getting image bytes
	api.POST("/admin/sweep", h.Sweep)     // requesting garbage collection

	// one route per filter: /api/grayscale, /api/threshold, ...
	for _, op := range model.Operations {
		api.POST("/"+string(op), h.Filter(op))
	}

	return r
}
