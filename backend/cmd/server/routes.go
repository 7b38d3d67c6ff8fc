package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"preference-graph/backend/internal/conversation"
	"preference-graph/backend/internal/graph"
	"go.uber.org/zap"
)

// PreferenceService is the surface the HTTP handlers need.
type PreferenceService interface {
	IngestConversation(ctx context.Context, uid string, turns []conversation.Turn) (string, error)
	NextQuestion(ctx context.Context, uid string, numPreferences int) (string, error)
	SummarizeRecent(ctx context.Context, uid string, n int) (string, error)
	ContentSummary(ctx context.Context, uid string, n int) (string, error)
	RecentPreferences(ctx context.Context, uid string, n int) ([]string, error)
	RecentConversations(ctx context.Context, uid string, n int) ([]conversation.Conversation, error)
}

type conversationIn struct {
	UID          string              `json:"uid" binding:"required"`
	Conversation []conversation.Turn `json:"conversation" binding:"required"`
	// Accepted for caller convenience; the episode id is generated here.
	ConversationID string `json:"conversation_id"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type nextQuestionIn struct {
	UID            string `json:"uid" binding:"required"`
	NumPreferences int    `json:"num_preferences"`
}

type summaryIn struct {
	UID              string `json:"uid" binding:"required"`
	NumConversations int    `json:"num_conversations"`
}

// newRouter wires all routes. Every internal failure maps to a generic 500
// carrying the error text; missing conversations map to 404.
func newRouter(svc PreferenceService, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/ingest_conversation", func(c *gin.Context) {
		var req conversationIn
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}

		episodeID, err := svc.IngestConversation(c.Request.Context(), req.UID, req.Conversation)
		if err != nil {
			log.Error("Failed to ingest conversation", zap.String("uid", req.UID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"status": "ok", "episode_id": episodeID})
	})

	router.POST("/next_question", func(c *gin.Context) {
		req := nextQuestionIn{NumPreferences: 5}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}

		question, err := svc.NextQuestion(c.Request.Context(), req.UID, req.NumPreferences)
		if err != nil {
			log.Error("Failed to generate next question", zap.String("uid", req.UID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"question": question})
	})

	router.POST("/conversation_summary", func(c *gin.Context) {
		req := summaryIn{NumConversations: 2}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}

		summary, err := svc.SummarizeRecent(c.Request.Context(), req.UID, req.NumConversations)
		if err != nil {
			log.Error("Failed to summarize conversations", zap.String("uid", req.UID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"summary": summary})
	})

	router.POST("/conversation_content", func(c *gin.Context) {
		req := summaryIn{NumConversations: 2}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}

		summary, err := svc.ContentSummary(c.Request.Context(), req.UID, req.NumConversations)
		if err != nil {
			log.Error("Failed to build content summary", zap.String("uid", req.UID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"summary": summary})
	})

	router.POST("/recent_preferences", func(c *gin.Context) {
		req := summaryIn{NumConversations: 2}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}

		prefs, err := svc.RecentPreferences(c.Request.Context(), req.UID, req.NumConversations)
		if err != nil {
			log.Error("Failed to extract recent preferences", zap.String("uid", req.UID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"preferences": prefs})
	})

	router.GET("/get_conversations", func(c *gin.Context) {
		uid := c.Query("uid")
		if uid == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "uid is required"})
			return
		}
		n := 1
		if raw := c.Query("n"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				n = parsed
			}
		}

		convs, err := svc.RecentConversations(c.Request.Context(), uid, n)
		if err != nil {
			var notFound graph.ErrNoConversations
			if errors.As(err, &notFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "No conversations found for user"})
				return
			}
			log.Error("Failed to fetch conversations", zap.String("uid", uid), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"conversations": convs})
	})

	return router
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
