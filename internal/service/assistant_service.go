package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sanjeetk74691-glitch/Kirana-store/internal/config"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/datamodels/chat"
	"github.com/sanjeetk74691-glitch/Kirana-store/internal/datamodels/product"
)

const defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// 上游失败时的兜底回复，绝不把错误抛给购物流程
const (
	adviceFallback  = "Sorry, I'm having trouble connecting right now."
	imageFallback   = "Failed to process image."
	adviceEmptyHint = "I'm not sure, how else can I help?"
	unknownProduct  = "Unknown Product"
)

// AssistantService 购物助手：文本咨询与图片识别都转发给 Gemini，
// 会话消息按用户归档，后台可回看。
type AssistantService struct {
	cfg        *config.GeminiConfig
	httpClient *http.Client
	chatRepo   chat.Repository
	products   *ProductService
}

// NewAssistantService 创建助手服务
func NewAssistantService(cfg *config.GeminiConfig, chatRepo chat.Repository, products *ProductService) *AssistantService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AssistantService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		chatRepo:   chatRepo,
		products:   products,
	}
}

// ---- Gemini generateContent 报文 ----

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (s *AssistantService) endpoint() string {
	if s.cfg.Endpoint != "" {
		return s.cfg.Endpoint
	}
	return defaultGeminiEndpoint
}

func (s *AssistantService) generate(ctx context.Context, req *geminiRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.endpoint(), s.cfg.Model, s.cfg.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func (s *AssistantService) record(ctx context.Context, userID int64, role, content string) {
	if s.chatRepo == nil {
		return
	}
	m := &chat.Message{
		ContactID: strconv.FormatInt(userID, 10),
		Role:      role,
		Content:   content,
	}
	if err := s.chatRepo.Create(ctx, m); err != nil {
		GetMonitor().RecordDBError()
		zap.L().Warn("save chat message failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}

// Advise 文本咨询：把问题和在售商品清单交给模型，返回导购建议。
// 上游失败时返回道歉话术，不返回错误。
func (s *AssistantService) Advise(ctx context.Context, userID int64, query string) string {
	GetMonitor().RecordAIRequest()
	s.record(ctx, userID, chat.RoleUser, query)

	names := s.productNames(ctx)
	prompt := fmt.Sprintf(`User Query: %s
Available Products in Store: %s

Act as a helpful Kirana store assistant. If the user asks for a recipe or general grocery help, suggest which items from our store they should buy. Be friendly and concise.`,
		query, strings.Join(names, ", "))

	reply, err := s.generate(ctx, &geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: &geminiGenerationConfig{Temperature: 0.7},
	})
	if err != nil {
		GetMonitor().RecordAIError()
		zap.L().Warn("gemini advice failed", zap.Int64("user_id", userID), zap.Error(err))
		reply = adviceFallback
	} else if strings.TrimSpace(reply) == "" {
		reply = adviceEmptyHint
	}

	s.record(ctx, userID, chat.RoleAssistant, reply)
	return reply
}

// IdentifyProduct 识图：让模型返回 {"productName": ...}，
// 再回链到目录里的在售商品。失败时 reply 是兜底话术，matched 为 nil。
func (s *AssistantService) IdentifyProduct(ctx context.Context, userID int64, imageBase64, mimeType string) (reply string, matched *product.Product) {
	GetMonitor().RecordAIRequest()
	s.record(ctx, userID, chat.RoleUser, "[photo]")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	text, err := s.generate(ctx, &geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{
				{InlineData: &geminiInlineData{MimeType: mimeType, Data: imageBase64}},
				{Text: "Identify this grocery product. Return only the name of the product in 1-3 words."},
			}},
		},
		GenerationConfig: &geminiGenerationConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		GetMonitor().RecordAIError()
		zap.L().Warn("gemini identify failed", zap.Int64("user_id", userID), zap.Error(err))
		s.record(ctx, userID, chat.RoleAssistant, imageFallback)
		return imageFallback, nil
	}

	name := parseProductName(text)
	if name == "" || name == unknownProduct {
		reply = fmt.Sprintf("I couldn't recognize that product. %s", adviceEmptyHint)
		s.record(ctx, userID, chat.RoleAssistant, reply)
		return reply, nil
	}

	if p, err := s.products.FindByName(ctx, name); err == nil && p != nil {
		matched = p
		reply = fmt.Sprintf("This looks like %s! We have it in stock at ₹%d / %s.", p.Name, p.Price, p.Unit)
	} else {
		reply = fmt.Sprintf("This looks like %s, but it's not in our store right now.", name)
	}
	s.record(ctx, userID, chat.RoleAssistant, reply)
	return reply, matched
}

// parseProductName 解析识图响应，模型偶尔不守 JSON 约定，做兼容处理
func parseProductName(text string) string {
	var data struct {
		ProductName string `json:"productName"`
	}
	if err := json.Unmarshal([]byte(text), &data); err == nil && data.ProductName != "" {
		return strings.TrimSpace(data.ProductName)
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.HasPrefix(trimmed, "{") {
		return unknownProduct
	}
	return trimmed
}

func (s *AssistantService) productNames(ctx context.Context) []string {
	list, err := s.products.ListOnline(ctx)
	if err != nil {
		GetMonitor().RecordDBError()
		return nil
	}
	names := make([]string, 0, len(list))
	for _, p := range list {
		names = append(names, p.Name)
	}
	return names
}
