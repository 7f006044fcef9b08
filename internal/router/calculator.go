package router

import "github.com/riosspedro/rios/internal/calc"

// calculate answers a calculator turn. Evaluation failures become the
// reply, never an error.
func calculate(text string) string {
	v, err := calc.Calculate(text)
	if err != nil {
		return "⚠️ Erro ao calcular: " + calc.Reason(err)
	}
	return "📘 Resultado do cálculo: **" + calc.Format(v) + "**"
}
