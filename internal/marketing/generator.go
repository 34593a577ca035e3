package marketing

import (
	"context"
	"fmt"
	"strings"

	"sige-backend/internal/models"
)

// TextGenerator abstrai o serviço de geração de texto para os handlers
// e para os testes (stub local).
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// buildPrompt monta o prompt de marketing a partir do produto.
// A saída pedida é Markdown; Instagram ganha emojis e hashtags, email ganha assunto.
func buildPrompt(product models.Product, tone, platform string) string {
	var b strings.Builder
	b.WriteString(`Atue como um especialista em Marketing Digital para uma loja de acessórios de celular chamada "Manu Acessórios".`)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Crie um conteúdo para a plataforma: %s.\n", platform)
	fmt.Fprintf(&b, "Tom de Voz: %s.\n\n", tone)
	b.WriteString("Detalhes do Produto:\n")
	fmt.Fprintf(&b, "Nome: %s\n", product.Name)
	fmt.Fprintf(&b, "Categoria: %s\n", product.Category)
	fmt.Fprintf(&b, "Preço: R$ %.2f\n", product.SalePrice)
	fmt.Fprintf(&b, "Modelos Compatíveis: %s\n\n", product.CompatibleModels)
	b.WriteString("O conteúdo deve ser formatado em Markdown. Se for Instagram, inclua emojis e hashtags. Se for Email, inclua um Assunto chamativo.")
	return b.String()
}
