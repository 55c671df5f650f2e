package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/RenCostamagna/comidita-backend/config"
)

// EnhanceCommentRequest pedido de mejora de texto de reseña
type EnhanceCommentRequest struct {
	Comment  string  `json:"comment" binding:"required"`
	DishName *string `json:"dish_name,omitempty"`
	Place    *string `json:"place,omitempty"`
}

// AIService servicio de IA
type AIService interface {
	EnhanceComment(req *EnhanceCommentRequest) (string, error)
}

type aiService struct {
	config *config.Config
}

// NewAIService constructor del servicio de IA
func NewAIService(cfg *config.Config) AIService {
	return &aiService{
		config: cfg,
	}
}

// Estructuras de la API de OpenAI
type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// EnhanceComment reescribe el comentario de una reseña sin inventar datos
func (s *aiService) EnhanceComment(req *EnhanceCommentRequest) (string, error) {
	if s.config.OpenAI.APIKey == "" {
		return "", fmt.Errorf("OpenAI API key is not configured")
	}

	prompt := s.buildPrompt(req)

	content, err := s.callOpenAI(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to call OpenAI API: %v", err)
	}

	return content, nil
}

// buildPrompt arma el prompt de mejora de comentario
func (s *aiService) buildPrompt(req *EnhanceCommentRequest) string {
	var prompt strings.Builder

	prompt.WriteString(
		"Sos un corrector de reseñas gastronómicas escritas por usuarios argentinos.\n" +
			"Tu tarea es mejorar la redacción del comentario que te paso, nada más.\n\n" +
			"- Mantené el voseo y el tono informal del autor.\n" +
			"- Corregí ortografía y puntuación, mejorá la fluidez.\n" +
			"- No inventes platos, precios ni experiencias que no estén en el texto.\n" +
			"- No cambies la opinión del autor: si critica, la crítica se mantiene.\n" +
			"- No agregues emojis que el autor no haya usado.\n\n",
	)

	if req.Place != nil && *req.Place != "" {
		prompt.WriteString(fmt.Sprintf("Lugar reseñado: %s\n", *req.Place))
	}
	if req.DishName != nil && *req.DishName != "" {
		prompt.WriteString(fmt.Sprintf("Plato mencionado: %s\n", *req.DishName))
	}

	prompt.WriteString(fmt.Sprintf("\nComentario original:\n%s\n", req.Comment))
	prompt.WriteString("\nDevolvé solo el comentario mejorado, sin título, comillas ni explicaciones.")

	return prompt.String()
}

// callOpenAI llama a la API de OpenAI
func (s *aiService) callOpenAI(prompt string) (string, error) {
	reqData := openAIRequest{
		Model: s.config.OpenAI.Model,
		Messages: []openAIMessage{
			{
				Role:    "user",
				Content: prompt,
			},
		},
	}

	jsonData, err := json.Marshal(reqData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequest("POST", "https://api.openai.com/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.config.OpenAI.APIKey))

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %v", err)
	}

	var openAIResp openAIResponse
	if err := json.Unmarshal(body, &openAIResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %v", err)
	}

	if openAIResp.Error != nil {
		return "", fmt.Errorf("OpenAI API error: %s", openAIResp.Error.Message)
	}

	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	content := openAIResp.Choices[0].Message.Content
	return strings.TrimSpace(content), nil
}
