// Package oddsmath converte e formata odds americanas e decimais.
//
// Entradas fora do domínio (americana 0, decimal <= 1.0) retornam erro em vez
// de um valor sentinela.
package oddsmath

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Format é o formato de odds declarado para um lote ou para exibição
type Format string

const (
	FormatDecimal  Format = "decimal"
	FormatAmerican Format = "american"
)

var (
	ErrInvalidAmericanOdds = errors.New("invalid american odds")
	ErrInvalidDecimalOdds  = errors.New("invalid decimal odds")
	ErrUnknownFormat       = errors.New("unknown odds format")
)

// ParseFormat aceita "decimal" ou "american" (case-insensitive, vazio = decimal)
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FormatDecimal):
		return FormatDecimal, nil
	case string(FormatAmerican):
		return FormatAmerican, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// AmericanToDecimal converte odds americanas para decimais
// +150 → 2.50
// -150 → 1.67
func AmericanToDecimal(american float64) (float64, error) {
	if american == 0 || math.IsNaN(american) || math.IsInf(american, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmericanOdds, american)
	}

	if american > 0 {
		return american/100.0 + 1.0, nil
	}
	return 100.0/math.Abs(american) + 1.0, nil
}

// DecimalToAmerican converte odds decimais para americanas
// 2.50 → +150
// 1.67 → -149
func DecimalToAmerican(dec float64) (int, error) {
	if !validDecimal(dec) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDecimalOdds, dec)
	}

	var american float64
	if dec >= 2.0 {
		american = math.Round((dec - 1.0) * 100.0)
	} else {
		american = math.Round(-100.0 / (dec - 1.0))
	}
	// fora do intervalo de int a conversão não é definida
	if american >= float64(math.MaxInt) || american < float64(math.MinInt) {
		return 0, fmt.Errorf("%w: %v out of range", ErrInvalidDecimalOdds, dec)
	}
	return int(american), nil
}

// ToDecimal normaliza um preço no formato de origem para decimal
func ToDecimal(price float64, f Format) (float64, error) {
	switch f {
	case FormatAmerican:
		return AmericanToDecimal(price)
	case FormatDecimal, "":
		if !validDecimal(price) {
			return 0, fmt.Errorf("%w: %v", ErrInvalidDecimalOdds, price)
		}
		return price, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// ImpliedProbability converte odds decimais em probabilidade implícita
// 2.00 → 0.50
func ImpliedProbability(dec float64) (float64, error) {
	if !validDecimal(dec) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDecimalOdds, dec)
	}
	return 1.0 / dec, nil
}

// FormatOdds formata um preço já no formato informado.
// Decimal sempre com 2 casas; americana como inteiro, com "+" quando positiva.
func FormatOdds(price float64, f Format) string {
	if f == FormatAmerican {
		return formatAmerican(int(math.Round(price)))
	}
	return decimal.NewFromFloat(price).StringFixed(2)
}

// FormatDecimalOdds formata odds decimais (saída do motor) no formato de exibição,
// convertendo para americana quando necessário
func FormatDecimalOdds(dec float64, display Format) (string, error) {
	switch display {
	case FormatAmerican:
		american, err := DecimalToAmerican(dec)
		if err != nil {
			return "", err
		}
		return formatAmerican(american), nil
	case FormatDecimal, "":
		return FormatOdds(dec, FormatDecimal), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, display)
	}
}

func formatAmerican(american int) string {
	if american > 0 {
		return "+" + strconv.Itoa(american)
	}
	return strconv.Itoa(american)
}

func validDecimal(dec float64) bool {
	return dec > 1.0 && !math.IsNaN(dec) && !math.IsInf(dec, 0)
}
