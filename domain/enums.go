package domain

import "slices"

var (
	PetSpecies         = []string{"cao", "gato", "passaro", "coelho", "outro"}
	PetSizes           = []string{"pequeno", "medio", "grande"}
	ServiceTypes       = []string{"banho", "tosa", "banho_tosa", "tosa_higienica", "corte_unhas"}
	AppointmentStatus  = []string{"agendado", "em_andamento", "concluido", "cancelado"}
	PaymentMethods     = []string{"dinheiro", "cartao_credito", "cartao_debito", "pix"}
	StockMovementTypes = []string{MovementIn, MovementOut, MovementAdjust}
)

// OneOf reports whether value is present in allowed.
func OneOf(value string, allowed []string) bool {
	return slices.Contains(allowed, value)
}
