package httpserver

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"

	"github.com/mastermahi08/Silkspeed-veersion01/internal/cart"
	"github.com/mastermahi08/Silkspeed-veersion01/internal/domain"
	"github.com/mastermahi08/Silkspeed-veersion01/internal/service/session"
)

type cartHandlers struct {
	sessions     CartSessions
	logger       *log.Logger
	secureCookie bool
}

type addItemRequest struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     json.RawMessage `json:"price"`
	Image     string          `json:"image"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	Quantity  *int            `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (r addItemRequest) toInput() (domain.LineItemInput, error) {
	price, err := rawPrice(r.Price)
	if err != nil {
		return domain.LineItemInput{}, err
	}
	quantity := 1
	if r.Quantity != nil {
		quantity = *r.Quantity
	}
	return domain.LineItemInput{
		ProductID: r.ProductID,
		Name:      r.Name,
		Price:     price,
		ImageRef:  r.Image,
		Size:      r.Size,
		Color:     r.Color,
		Quantity:  quantity,
	}, nil
}

// rawPrice accepts the price as a JSON string ("$19.99") or a bare number.
func rawPrice(raw json.RawMessage) (string, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return "", nil
	}
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", errors.Wrap(domain.ErrInvalidLineItem, "price")
		}
		return s, nil
	}
	return text, nil
}

func (h *cartHandlers) createSession(c *gin.Context) {
	id := h.sessions.Issue()
	setSession(c, id, h.secureCookie)
	c.JSON(http.StatusCreated, gin.H{"sessionId": id})
}

// forgetSession deletes the stored cart and expires the session cookie.
func (h *cartHandlers) forgetSession(c *gin.Context) {
	if err := h.sessions.Forget(c.Request.Context(), sessionFrom(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.Writer.Header().Del(sessionHeader)
	clearSession(c, h.secureCookie)
	c.Status(http.StatusNoContent)
}

func (h *cartHandlers) getCart(c *gin.Context) {
	var view cartView
	err := h.sessions.Do(c.Request.Context(), sessionFrom(c), func(s *cart.Store) error {
		view = buildCartView(s)
		return nil
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *cartHandlers) count(c *gin.Context) {
	var badge badgeView
	err := h.sessions.Do(c.Request.Context(), sessionFrom(c), func(s *cart.Store) error {
		badge = buildBadge(s)
		return nil
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, badge)
}

func (h *cartHandlers) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.writeError(c, err)
		return
	}
	item, err := input.Parse()
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.mutate(c, addedNotification, func(ctx context.Context, s *cart.Store) error {
		return s.AddItem(ctx, item)
	})
}

func (h *cartHandlers) setQuantity(c *gin.Context) {
	index, ok := h.indexParam(c)
	if !ok {
		return
	}
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
		return
	}
	h.mutate(c, "", func(ctx context.Context, s *cart.Store) error {
		return s.SetQuantity(ctx, index, *req.Quantity)
	})
}

func (h *cartHandlers) increase(c *gin.Context) {
	index, ok := h.indexParam(c)
	if !ok {
		return
	}
	h.mutate(c, "", func(ctx context.Context, s *cart.Store) error {
		return s.Increase(ctx, index)
	})
}

func (h *cartHandlers) decrease(c *gin.Context) {
	index, ok := h.indexParam(c)
	if !ok {
		return
	}
	h.mutate(c, "", func(ctx context.Context, s *cart.Store) error {
		return s.Decrease(ctx, index)
	})
}

func (h *cartHandlers) removeItem(c *gin.Context) {
	index, ok := h.indexParam(c)
	if !ok {
		return
	}
	h.mutate(c, "", func(ctx context.Context, s *cart.Store) error {
		return s.RemoveItem(ctx, index)
	})
}

func (h *cartHandlers) clear(c *gin.Context) {
	h.mutate(c, "", func(ctx context.Context, s *cart.Store) error {
		return s.Clear(ctx)
	})
}

// mutate runs op against the session cart and renders the resulting cart along
// with the events it produced.
func (h *cartHandlers) mutate(c *gin.Context, notification string, op func(context.Context, *cart.Store) error) {
	ctx := c.Request.Context()
	var resp mutationResponse
	err := h.sessions.Do(ctx, sessionFrom(c), func(s *cart.Store) error {
		events := []cart.Event{}
		unsubscribe := s.Subscribe(func(ev cart.Event) {
			events = append(events, ev)
		})
		defer unsubscribe()

		if err := op(ctx, s); err != nil {
			return err
		}
		resp = mutationResponse{
			Cart:         buildCartView(s),
			Events:       events,
			Notification: notification,
		}
		return nil
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *cartHandlers) indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return 0, false
	}
	return index, true
}

func (h *cartHandlers) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidLineItem),
		errors.Is(err, session.ErrInvalidSession):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrIndexOutOfRange):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrStorageFailure):
		h.logger.Printf("cart: storage failure session=%s error=%v", sessionFrom(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cart storage unavailable"})
	default:
		h.logger.Printf("cart: request failed session=%s error=%v", sessionFrom(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
