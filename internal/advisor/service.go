package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/AsesorVial/mi-asesor-vial-backend/internal/platform/config"
	openai "github.com/sashabaranov/go-openai"
)

// ErrNotConfigured 表示未配置API密钥，AI顾问不可用。
var ErrNotConfigured = errors.New("advisor: 未配置API密钥")

// client 是全局的聊天补全客户端，未配置时为nil
var client *openai.Client

// model 是聊天补全使用的模型名
var model string

// Configure 在应用启动时初始化AI客户端。密钥为空时服务保持禁用。
func Configure(cfg config.AdvisorConfig) {
	if cfg.APIKey == "" {
		fmt.Println("AI顾问: 未配置API密钥，相关接口将返回503。")
		return
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	client = openai.NewClientWithConfig(clientConfig)
	model = cfg.Model
	fmt.Printf("AI顾问: 客户端已初始化 (model=%s)。\n", model)
}

// queryPrompt 是自由问答的系统提示词，沿用原产品的西语提示口径。
const queryPrompt = `Eres un útil asistente legal de IA especializado en leyes y procedimientos de tránsito mexicanos.
El usuario está pidiendo consejo o información sobre una situación relacionada con el tránsito en México.
Por favor, proporciona una respuesta concisa, útil e informativa basada en su consulta, EN ESPAÑOL.
Concéntrate en proporcionar orientación e información general. NO des consejos legales definitivos que deban provenir de un abogado humano calificado.
Si la consulta es sobre una emergencia (por ejemplo, "Tuve un choque"), prioriza los pasos de seguridad y qué hacer de inmediato.
Si la consulta es sobre interacciones con las autoridades (por ejemplo, "Me detuvieron"), explica los derechos y los procedimientos esperados con calma.
Basa tus respuestas en el conocimiento común de las regulaciones de tránsito mexicanas.`

// suggestPrompt 是按违章推荐文章的系统提示词，要求模型输出JSON数组。
const suggestPrompt = `You are a legal assistant specializing in Mexican traffic law.
You will receive a traffic infraction and will suggest a short list of article topics that explain the regulations, obligations, and potential consequences related to the infraction.
Respond ONLY with a JSON array of strings, in Spanish. Example: ["Entendiendo los límites de velocidad", "Multas y puntos en la licencia"]`

// AnswerTrafficQuery 对一条交通法规咨询生成一段建议。
func AnswerTrafficQuery(ctx context.Context, userQuery string) (string, error) {
	if client == nil {
		return "", ErrNotConfigured
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: queryPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userQuery},
		},
	})
	if err != nil {
		return "", fmt.Errorf("AI问答请求失败: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("AI问答返回为空")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// SuggestRelevantArticles 根据一种交通违章推荐相关文章主题。
func SuggestRelevantArticles(ctx context.Context, infraction string) ([]string, error) {
	if client == nil {
		return nil, ErrNotConfigured
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: suggestPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Traffic Infraction: " + infraction},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("AI推荐请求失败: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("AI推荐返回为空")
	}
	return ParseSuggestions(resp.Choices[0].Message.Content), nil
}

// ParseSuggestions 解析模型输出的推荐列表。
// 优先按JSON数组解析，失败时退回按行切分。
func ParseSuggestions(raw string) []string {
	raw = strings.TrimSpace(raw)
	// 剥掉可能的Markdown代码块
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var parsed []string
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		out := make([]string, 0, len(parsed))
		for _, s := range parsed {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	}

	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
