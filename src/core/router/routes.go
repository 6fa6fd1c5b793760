package router

import (
	"fmt"
	"sort"

	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/middleware"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/modules/authentication"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/modules/connections"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/modules/events"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/modules/feed"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/modules/knowledgepoints"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/modules/posts"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/modules/reactions"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/modules/users"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func InitialiseAndSetupRoutes(app *fiber.App) {
	root := app.Group("/", logger.New())

	root.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	apiV1 := root.Group("/api/v1")
	setupAPIV1Routes(apiV1)

	routes := app.GetRoutes()
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].Path < routes[j].Path
	})
	for _, route := range routes {
		fmt.Printf("%s\t%s\n", route.Method, route.Path)
	}
}

func setupAPIV1Routes(router fiber.Router) {
	authGroup := router.Group("/auth")
	userGroup := router.Group("/users")
	postGroup := router.Group("/posts")
	feedGroup := router.Group("/feed")
	eventGroup := router.Group("/events")
	reactionGroup := router.Group("/reactions")
	connectionGroup := router.Group("/connections")
	knowledgeGroup := router.Group("/knowledge-points")

	// Authentication routes
	authGroup.Post("/signup", authentication.SignUp)
	authGroup.Post("/signin", authentication.SignIn)

	// User routes
	userGroup.Get("/profile", middleware.Protected(), users.GetProfile)
	userGroup.Put("/profile", middleware.Protected(), users.UpdateProfile)

	// Post routes
	postGroup.Post("/", middleware.Protected(), posts.CreatePost)
	postGroup.Get("/:id", middleware.Protected(), posts.GetPost)
	postGroup.Post("/comment", middleware.Protected(), posts.CreateComment)
	postGroup.Get("/:id/comments", middleware.Protected(), posts.ListComments)
	postGroup.Get("/:post_id/reactions/count", middleware.Protected(), reactions.CountForPost)

	// Engagement routes
	reactionGroup.Post("/", middleware.Protected(), reactions.React)
	reactionGroup.Delete("/", middleware.Protected(), reactions.Remove)

	connectionGroup.Post("/", middleware.Protected(), connections.Request)
	connectionGroup.Get("/", middleware.Protected(), connections.List)
	connectionGroup.Patch("/:id", middleware.Protected(), connections.Patch)
	connectionGroup.Delete("/", middleware.Protected(), connections.Remove)

	knowledgeGroup.Post("/", middleware.Protected(), knowledgepoints.Award)
	knowledgeGroup.Get("/:post_id", middleware.Protected(), knowledgepoints.ForPost)

	// Event routes
	eventGroup.Post("/", middleware.Protected(), events.CreateEvent)
	eventGroup.Get("/upcoming", middleware.Protected(), events.GetUpcomingEvents)
	eventGroup.Get("/:id", middleware.Protected(), events.GetEventByID)
	eventGroup.Post("/register", middleware.Protected(), events.Register)

	// Feed routes
	feedGroup.Get("/", middleware.Protected(), feed.FetchFeed)
}
