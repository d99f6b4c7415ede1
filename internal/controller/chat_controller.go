package controller

import (
	"strconv"

	"hipaai-chat-be/internal/apperror"
	"hipaai-chat-be/internal/constant"
	"hipaai-chat-be/internal/dto"
	"hipaai-chat-be/internal/pkg/serverutils"
	"hipaai-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Dispatch(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
	actions     map[string]actionSpec
}

// actionSpec binds an action name to its required method and handler.
type actionSpec struct {
	method string
	handle func(ctx *fiber.Ctx, userId int64) error
}

func NewChatController(chatService service.IChatService) IChatController {
	c := &chatController{
		chatService: chatService,
	}
	c.actions = map[string]actionSpec{
		constant.ActionGetChats:    {method: fiber.MethodGet, handle: c.getChats},
		constant.ActionCreateChat:  {method: fiber.MethodPost, handle: c.createChat},
		constant.ActionGetMessages: {method: fiber.MethodGet, handle: c.getMessages},
		constant.ActionSendMessage: {method: fiber.MethodPost, handle: c.sendMessage},
		constant.ActionDeleteChat:  {method: fiber.MethodDelete, handle: c.deleteChat},
	}
	return c
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.Dispatch)
	h.Post("", c.Dispatch)
	h.Delete("", c.Dispatch)
}

// Dispatch resolves the ?action= parameter against the action table. Unknown
// actions and method mismatches are rejected before any business logic runs.
func (c *chatController) Dispatch(ctx *fiber.Ctx) error {
	action := ctx.Query("action")
	spec, ok := c.actions[action]
	if !ok {
		return apperror.NotFound("Unknown API action requested.")
	}
	if ctx.Method() != spec.method {
		return apperror.MethodNotAllowed("Method Not Allowed for " + action)
	}

	userId, err := serverutils.CallerId(ctx)
	if err != nil {
		return err
	}

	return spec.handle(ctx, userId)
}

func (c *chatController) getChats(ctx *fiber.Ctx, userId int64) error {
	res, err := c.chatService.GetChats(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse(res))
}

func (c *chatController) createChat(ctx *fiber.Ctx, userId int64) error {
	res, err := c.chatService.CreateChat(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse(res))
}

func (c *chatController) getMessages(ctx *fiber.Ctx, userId int64) error {
	chatId, err := chatIdFromQuery(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatService.GetMessages(ctx.Context(), userId, chatId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse(res))
}

func (c *chatController) sendMessage(ctx *fiber.Ctx, userId int64) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.BadRequest("Malformed request body.")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.SendMessage(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse(res))
}

func (c *chatController) deleteChat(ctx *fiber.Ctx, userId int64) error {
	chatId, err := chatIdFromQuery(ctx)
	if err != nil {
		return err
	}

	if err := c.chatService.DeleteChat(ctx.Context(), userId, chatId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse(true))
}

func chatIdFromQuery(ctx *fiber.Ctx) (int64, error) {
	raw := ctx.Query("chat_id")
	if raw == "" {
		return 0, apperror.BadRequest("A chat_id parameter is required.")
	}
	chatId, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || chatId <= 0 {
		return 0, apperror.BadRequest("chat_id must be a positive integer.")
	}
	return chatId, nil
}
