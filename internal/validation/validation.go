// Package validation embrulha o validator com a resposta de erro padrão da
// API: um mapa campo -> mensagem, igual ao que os formulários esperam.
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// Struct valida o request e devolve um 422 com os campos que falharam.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field())+" ("+fe.Tag()+")")
	}
	return fiber.NewError(fiber.StatusUnprocessableEntity, "Campos inválidos: "+strings.Join(fields, ", "))
}
