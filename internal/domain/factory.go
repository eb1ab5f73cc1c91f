package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	apperror "gocatalog/internal/errors"
)

// BuildProduct monta a variante correta de Product a partir da tag de tipo e
// de um mapa de campos brutos (o corpo JSON já decodificado). Construção
// pura: nenhum efeito colateral.
//
// Atributos numéricos ausentes assumem zero do tipo apropriado; valores
// malformados (e.g. price = "abc") falham com erro de validação em vez de
// virarem zero silenciosamente.
func BuildProduct(productType string, fields map[string]interface{}) (Product, error) {
	if !ValidType(productType) {
		return Product{}, apperror.NewValidationError(fmt.Sprintf("Tipo de produto inválido: %s", productType))
	}

	sku, err := requiredString(fields, "sku")
	if err != nil {
		return Product{}, err
	}
	name, err := requiredString(fields, "name")
	if err != nil {
		return Product{}, err
	}
	price, err := floatField(fields, "price")
	if err != nil {
		return Product{}, err
	}
	if price <= 0 {
		return Product{}, apperror.NewValidationError("O preço do produto deve ser positivo.")
	}

	product := Product{
		SKU:   sku,
		Name:  name,
		Price: price,
		Type:  ProductType(productType),
	}

	switch product.Type {
	case TypeDVD:
		size, err := intField(fields, "size")
		if err != nil {
			return Product{}, err
		}
		product.DVD = &DVDAttributes{Size: size}
	case TypeBook:
		weight, err := floatField(fields, "weight")
		if err != nil {
			return Product{}, err
		}
		product.Book = &BookAttributes{Weight: weight}
	case TypeFurniture:
		height, err := floatField(fields, "height")
		if err != nil {
			return Product{}, err
		}
		width, err := floatField(fields, "width")
		if err != nil {
			return Product{}, err
		}
		length, err := floatField(fields, "length")
		if err != nil {
			return Product{}, err
		}
		product.Furniture = &FurnitureAttributes{Height: height, Width: width, Length: length}
	}

	return product, nil
}

// requiredString extrai um campo string obrigatório, não vazio e com no
// máximo 255 caracteres (limite das colunas VARCHAR do schema).
func requiredString(fields map[string]interface{}, key string) (string, error) {
	raw, ok := fields[key]
	if !ok || raw == nil {
		return "", apperror.NewValidationError(fmt.Sprintf("O campo %s é obrigatório.", key))
	}
	value, ok := raw.(string)
	if !ok {
		return "", apperror.NewValidationError(fmt.Sprintf("O campo %s deve ser uma string.", key))
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperror.NewValidationError(fmt.Sprintf("O campo %s não pode ser vazio.", key))
	}
	if len(value) > 255 {
		return "", apperror.NewValidationError(fmt.Sprintf("O campo %s excede o limite de 255 caracteres.", key))
	}
	return value, nil
}

// floatField extrai um campo numérico como float64. Campo ausente vale zero.
func floatField(fields map[string]interface{}, key string) (float64, error) {
	raw, ok := fields[key]
	if !ok || raw == nil {
		return 0, nil
	}
	return toFloat(raw, key)
}

// intField extrai um campo numérico como inteiro. Campo ausente vale zero.
func intField(fields map[string]interface{}, key string) (int64, error) {
	raw, ok := fields[key]
	if !ok || raw == nil {
		return 0, nil
	}
	switch value := raw.(type) {
	case float64:
		// encoding/json decodifica qualquer número JSON como float64.
		return int64(value), nil
	case json.Number:
		parsed, err := value.Int64()
		if err != nil {
			return 0, apperror.NewValidationError(fmt.Sprintf("Valor inteiro inválido para %s: %q", key, value.String()))
		}
		return parsed, nil
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0, apperror.NewValidationError(fmt.Sprintf("Valor inteiro inválido para %s: %q", key, value))
		}
		return parsed, nil
	}
	return 0, apperror.NewValidationError(fmt.Sprintf("O campo %s deve ser numérico.", key))
}

// toFloat converte um valor bruto vindo do JSON em float64.
func toFloat(raw interface{}, key string) (float64, error) {
	switch value := raw.(type) {
	case float64:
		return value, nil
	case json.Number:
		parsed, err := value.Float64()
		if err != nil {
			return 0, apperror.NewValidationError(fmt.Sprintf("Valor numérico inválido para %s: %q", key, value.String()))
		}
		return parsed, nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, apperror.NewValidationError(fmt.Sprintf("Valor numérico inválido para %s: %q", key, value))
		}
		return parsed, nil
	}
	return 0, apperror.NewValidationError(fmt.Sprintf("O campo %s deve ser numérico.", key))
}
