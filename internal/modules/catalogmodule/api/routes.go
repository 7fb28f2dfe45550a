package api

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/mantonx/cinelist/internal/logger"
)

var registerValidators sync.Once

// RegisterRoutes registers all catalog routes
func RegisterRoutes(router *gin.Engine, handler *Handler) {
	registerValidators.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
				logger.Error("failed to register notblank validator", "error", err)
			}
		}
	})

	movieGroup := router.Group("/api/movies")
	{
		movieGroup.GET("", handler.ListMovies)
		movieGroup.POST("", handler.CreateMovie)
		movieGroup.GET("/favorites", handler.ListFavorites)
		movieGroup.GET("/search", handler.SearchMovies)
		movieGroup.GET("/popular", handler.GetPopular)
		movieGroup.GET("/top-rated", handler.GetTopRated)
		movieGroup.GET("/tmdb/:tmdbId", handler.GetTmdbMovie)
		movieGroup.GET("/:id", handler.GetMovie)
		movieGroup.PUT("/:id", handler.UpdateMovie)
		movieGroup.DELETE("/:id", handler.DeleteMovie)
		movieGroup.POST("/:id/favorite", handler.AddToFavorites)
		movieGroup.DELETE("/:id/favorite", handler.RemoveFromFavorites)
	}
}
