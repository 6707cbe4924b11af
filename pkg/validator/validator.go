package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

func FormatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, fieldError := range validationErrors {
			messages = append(messages, getFieldErrorMessage(fieldError))
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("El campo %s es requerido", field)
	case "email":
		return fmt.Sprintf("%s debe ser un email válido", field)
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", field, fe.Param())
	case "min":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s debe tener al menos %s caracteres", field, fe.Param())
		}
		return fmt.Sprintf("%s debe ser al menos %s", field, fe.Param())
	case "max":
		if fe.Type().String() == "string" {
			return fmt.Sprintf("%s debe tener máximo %s caracteres", field, fe.Param())
		}
		return fmt.Sprintf("%s debe ser máximo %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s debe ser mayor o igual a %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s no es válido", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Email":         "Email",
		"Password":      "Contraseña",
		"FullName":      "Nombre completo",
		"Role":          "Rol",
		"Name":          "Nombre",
		"Subject":       "Materia",
		"Semester":      "Semestre",
		"Title":         "Título",
		"Topic":         "Tema",
		"DueDate":       "Fecha de entrega",
		"ClassID":       "Clase",
		"Grade":         "Calificación",
		"Message":       "Mensaje",
		"Difficulty":    "Dificultad",
		"QuestionCount": "Número de preguntas",
		"QuestionType":  "Tipo de pregunta",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
