package controller

import (
	"bufio"

	"thinkboard-be/internal/dto"
	"thinkboard-be/internal/pkg/serverutils"
	"thinkboard-be/internal/service"
	"thinkboard-be/pkg/agent/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
)

type IAgentController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	StreamChat(ctx *fiber.Ctx) error
	GetTrace(ctx *fiber.Ctx) error
}

type agentController struct {
	agentService       service.IAgentService
	redisClient        *redis.Client
	rateLimitPerMinute int
}

func NewAgentController(agentService service.IAgentService, redisClient *redis.Client, rateLimitPerMinute int) IAgentController {
	return &agentController{
		agentService:       agentService,
		redisClient:        redisClient,
		rateLimitPerMinute: rateLimitPerMinute,
	}
}

func (c *agentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/agent/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Use(serverutils.RateLimitMiddleware(c.redisClient, c.rateLimitPerMinute))
	h.Post("chat", c.Chat)
	h.Post("chat/stream", c.StreamChat)
	h.Get("trace/:session_id", c.GetTrace)
}

func (c *agentController) Chat(ctx *fiber.Ctx) error {
	var req dto.AgentChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.agentService.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success agent chat", res))
}

// StreamChat runs one agent turn over SSE. Validation failures are
// rejected with a normal JSON error before the stream opens; once the
// first frame is written the only error channel left is the `error`
// event.
func (c *agentController) StreamChat(ctx *fiber.Ctx) error {
	var req dto.AgentChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	// The fasthttp RequestCtx doubles as the request context; its Done
	// channel fires when the client drops the connection. It must be
	// captured here because the fiber Ctx is recycled once this handler
	// returns, before the stream writer runs.
	requestCtx := ctx.Context()

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		emitter := stream.NewSSEWriter(w)
		c.agentService.StreamChat(requestCtx, &req, emitter)
	}))

	return nil
}

func (c *agentController) GetTrace(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")
	if sessionID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "session_id is required")
	}

	res, err := c.agentService.GetTrace(ctx.Context(), sessionID)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "No trace found for session")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get trace", res))
}
