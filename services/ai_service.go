package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/kaiyq/run-away-pwa/models"
	"github.com/kaiyq/run-away-pwa/utils"
)

// AI 分析错误，调用方用 errors.Is 判断
var (
	// ErrProviderRequest 网络或HTTP层面的调用失败
	ErrProviderRequest = errors.New("AI请求失败")
	// ErrProviderResponse AI 回复无法解析
	ErrProviderResponse = errors.New("AI返回格式错误")
)

// presetTags 预设标签列表（12类）
var presetTags = []string{
	"打压学生",
	"反常识",
	"标榜自己",
	"与事实不符",
	"PUA/情感操控",
	"人身攻击",
	"无视事实",
	"双标",
	"转移话题",
	"推卸责任",
	"贬低他人",
	"自相矛盾",
}

// defaultComment AI 没有给出评论时的兜底文案
const defaultComment = "加油，你做得很好！"

// ProviderConfig 单个AI提供商的接入参数
type ProviderConfig struct {
	Endpoint string
	Model    string
}

// defaultProviders 三家提供商只差 endpoint 和模型名，共用同一条调用路径
var defaultProviders = map[string]ProviderConfig{
	"deepseek": {
		Endpoint: "https://api.deepseek.com/v1/chat/completions",
		Model:    "deepseek-chat",
	},
	"qwen": {
		Endpoint: "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions",
		Model:    "qwen-plus",
	},
	"glm": {
		Endpoint: "https://open.bigmodel.cn/api/paas/v4/chat/completions",
		Model:    "glm-4-flash",
	},
}

// jsonBlockPattern 宽松解析时提取首个大括号包裹的子串
var jsonBlockPattern = regexp.MustCompile(`(?s)\{.*\}`)

// AIService AI 分析服务（无状态，每次调用一次出站请求，不重试不缓存）
type AIService struct {
	client    *http.Client
	providers map[string]ProviderConfig
}

// NewAIService 创建 AI 服务
func NewAIService() *AIService {
	return &AIService{
		client:    &http.Client{Timeout: 30 * time.Second},
		providers: defaultProviders,
	}
}

// PresetTags 返回预设标签列表的副本
func PresetTags() []string {
	tags := make([]string, len(presetTags))
	copy(tags, presetTags)
	return tags
}

// aiReply AI 返回文本中期望的 JSON 结构
type aiReply struct {
	Tags    []string `json:"tags"`
	Comment string   `json:"comment"`
}

// chatResponse 提供商成功响应的必要部分
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// chatError 提供商错误响应的必要部分
type chatError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze 分析言论，返回标签建议和简短评论
// 未配置 API Key 时软拒绝：返回空标签和提示文案，不发起网络请求，不算错误
func (s *AIService) Analyze(ctx context.Context, content, myFeeling, providerID, apiKey string) (*models.AIResult, error) {
	if apiKey == "" {
		log.Printf("ℹ️ 未配置API Key，跳过AI分析")
		return &models.AIResult{
			Tags:    []string{},
			Comment: "未配置AI服务，请在设置中添加API Key",
		}, nil
	}

	provider, ok := s.providers[providerID]
	if !ok {
		return nil, fmt.Errorf("%w: 未知的AI提供商 %s", ErrProviderRequest, providerID)
	}

	log.Printf("🔍 AI分析请求: provider=%s, model=%s, key=%s",
		providerID, provider.Model, utils.SanitizeAPIKey(apiKey))

	reqBody := map[string]interface{}{
		"model": provider.Model,
		"messages": []map[string]string{
			{"role": "system", "content": "你是一个善解人意的学生心理辅导助手，善于识别不当言论。"},
			{"role": "user", "content": buildPrompt(content, myFeeling)},
		},
		"temperature": 0.7,
		"max_tokens":  500,
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("JSON序列化失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, provider.Endpoint, bytes.NewReader(reqJSON))
	if err != nil {
		return nil, fmt.Errorf("%w: 创建请求失败: %v", ErrProviderRequest, err)
	}

	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderRequest, err)
	}
	defer resp.Body.Close()

	// 限制响应体大小为1MB，防止超大响应
	limitedReader := io.LimitReader(resp.Body, 1024*1024)

	if resp.StatusCode != http.StatusOK {
		log.Printf("❌ AI服务返回错误状态: %d %s", resp.StatusCode, resp.Status)
		// 尽量带上提供商自己报告的错误信息
		var errResp chatError
		if decodeErr := json.NewDecoder(limitedReader).Decode(&errResp); decodeErr == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("%w: %s (状态码: %d)", ErrProviderRequest, errResp.Error.Message, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: API请求失败 (状态码: %d)", ErrProviderRequest, resp.StatusCode)
	}

	var result chatResponse
	if err := json.NewDecoder(limitedReader).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: 解析响应失败: %v", ErrProviderResponse, err)
	}

	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("%w: AI无响应", ErrProviderResponse)
	}

	reply, err := parseAIReply(result.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	// 丢弃不在预设列表中的标签，过滤后为空也是合法结果
	validTags := []string{}
	for _, tag := range reply.Tags {
		for _, preset := range presetTags {
			if tag == preset {
				validTags = append(validTags, tag)
				break
			}
		}
	}

	comment := reply.Comment
	if comment == "" {
		comment = defaultComment
	}

	return &models.AIResult{Tags: validTags, Comment: comment}, nil
}

// TestConnection 测试AI服务连接（用一次固定输入的分析调用验证配置）
func (s *AIService) TestConnection(ctx context.Context, providerID, apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("%w: API Key为空", ErrProviderRequest)
	}

	_, err := s.Analyze(ctx, "测试内容", "测试感受", providerID, apiKey)
	return err
}

// parseAIReply 宽松解析AI回复：先整体解析，失败则提取首个大括号子串再解析
func parseAIReply(text string) (*aiReply, error) {
	text = strings.TrimSpace(text)

	var reply aiReply
	if err := json.Unmarshal([]byte(text), &reply); err == nil {
		return &reply, nil
	}

	block := jsonBlockPattern.FindString(text)
	if block != "" {
		if err := json.Unmarshal([]byte(block), &reply); err == nil {
			return &reply, nil
		}
	}

	return nil, ErrProviderResponse
}

// buildPrompt 构建分析提示词，嵌入预设标签列表并要求纯JSON回复
func buildPrompt(content, myFeeling string) string {
	return fmt.Sprintf(`你是一个帮助学生分析A发言的助手。请分析以下内容，并返回JSON格式的结果。

A发言：%s

学生感受：%s

请从以下标签中选择1-5个最匹配的标签：
%s

返回格式（必须是有效的JSON）：
{
  "tags": ["标签1", "标签2"],
  "comment": "简短评论（10-20字，理解和支持学生）"
}

要求：
1. 只使用上述预设标签
2. 评论要温暖、理解、支持学生
3. 返回纯JSON，不要有其他内容`, content, myFeeling, strings.Join(presetTags, "、"))
}
