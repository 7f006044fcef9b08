package intent

import "testing"

func TestKeywordClassifier_Classify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want Category
	}{
		{"Quanto é 12 + 35 * 2?", Calculator},
		{"10 / 4", Calculator},
		{"2 vezes 3", Calculator},
		{"3 × 4", Calculator},
		{"explique 2 coisas", Calculator}, // the letter x counts as an operator
		{"qual o tempo em 2 dias - e o clima?", Calculator},
		{"qual o tempo em Uberlândia", Weather},
		{"Previsão para amanhã", Weather},
		{"TEMPERATURA em Recife", Weather},
		{"temperatura do ethereum", Weather},
		{"qual a cotação do dólar", Currency},
		{"quanto está o Euro hoje?", Currency},
		{"libra esterlina", Currency},
		{"bitcoin em euro", Currency},
		{"preço do bitcoin", Crypto},
		{"e o ETH?", Crypto},
		{"me fala de cripto", Crypto},
		{"quem é você?", LLM},
		{"Olá, sou da Artefact", LLM},
		{"2 VEZES 3", LLM},
		{"", LLM},
	}

	var c KeywordClassifier
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			if got := c.Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestKeywordClassifier_CalculatorWinsOverKeywords(t *testing.T) {
	t.Parallel()

	var c KeywordClassifier
	for _, text := range []string{
		"tempo 1+1",
		"dólar 2*3",
		"bitcoin 5-1",
		"clima cotação bitcoin 9/3",
	} {
		if got := c.Classify(text); got != Calculator {
			t.Errorf("Classify(%q) = %s, want calculator", text, got)
		}
	}
}

func TestKeywordClassifier_Idempotent(t *testing.T) {
	t.Parallel()

	var c KeywordClassifier
	for _, text := range []string{"qual o tempo em Uberlândia", "1+1", "oi", "btc"} {
		first := c.Classify(text)
		for i := 0; i < 3; i++ {
			if got := c.Classify(text); got != first {
				t.Fatalf("Classify(%q) changed from %s to %s", text, first, got)
			}
		}
	}
}

func TestCategory_String(t *testing.T) {
	t.Parallel()

	want := []string{"calculator", "weather", "currency", "crypto", "llm"}
	for i, c := range Categories() {
		if c.String() != want[i] {
			t.Errorf("Category(%d).String() = %q, want %q", c, c.String(), want[i])
		}
	}
	if got := Category(42).String(); got != "unknown" {
		t.Errorf("out of range String() = %q, want unknown", got)
	}
}
