package quote

import "strings"

// Names of the fields Generate requires.
const (
	FieldClientName  = "nome do cliente"
	FieldClientPhone = "telefone"
	FieldItems       = "itens"
)

// ValidationMessage is the message shown to the user when a quote cannot
// be generated yet.
const ValidationMessage = "Preencha todos os campos e adicione pelo menos um item ao orçamento."

// ValidationError lists what is missing before a quote can be generated.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "quote incomplete: missing " + strings.Join(e.Missing, ", ")
}

// Message is the user-facing text, naming the missing fields.
func (e *ValidationError) Message() string {
	return ValidationMessage + " Faltando: " + strings.Join(e.Missing, ", ") + "."
}
