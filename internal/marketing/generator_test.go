package marketing

import (
	"strings"
	"testing"

	"sige-backend/internal/models"
)

func TestBuildPrompt(t *testing.T) {
	product := models.Product{
		Name:             "Capinha Transparente Anti-Impacto",
		Category:         "Capas",
		SalePrice:        49.9,
		CompatibleModels: "iPhone 13, iPhone 14",
	}

	prompt := buildPrompt(product, "divertido", "Instagram")

	for _, want := range []string{
		`"Manu Acessórios"`,
		"Crie um conteúdo para a plataforma: Instagram.",
		"Tom de Voz: divertido.",
		"Nome: Capinha Transparente Anti-Impacto",
		"Categoria: Capas",
		"Preço: R$ 49.90",
		"Modelos Compatíveis: iPhone 13, iPhone 14",
		"formatado em Markdown",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt não contém %q\nprompt:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptEmptyOptionalFields(t *testing.T) {
	product := models.Product{Name: "Fone Bluetooth", Category: "Acessórios"}

	prompt := buildPrompt(product, "formal", "Email")
	if !strings.Contains(prompt, "Preço: R$ 0.00") {
		t.Errorf("produto sem preço deve aparecer como 0.00:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Modelos Compatíveis: \n") {
		t.Errorf("modelos vazios devem virar campo em branco:\n%s", prompt)
	}
}
