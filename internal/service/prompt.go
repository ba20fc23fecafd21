package service

import "fmt"

const extractionPromptTemplate = `Analiza el siguiente texto de un usuario que reporta un siniestro:
---
%s
---
Extrae la siguiente información y devuelve un JSON con estas propiedades:
- date: fecha del hecho en formato YYYY-MM-DD, o la expresión relativa tal como aparece ("hoy", "ayer", "anteayer"), o vacío si no se menciona
- location: lugar del hecho, o vacío
- description: breve descripción de lo ocurrido, o vacío
- injuries (boolean): true si hubo personas heridas
- owner (boolean): true si quien escribe es el titular
- complete (boolean)
- question (string si falta información, vacío si está completa)
- conversationalResponse: una respuesta breve y empática para el usuario, en español
Devuelve sólo el JSON, sin texto adicional.`

// buildExtractionPrompt встраивает текст пользователя в инструкцию для генератора
func buildExtractionPrompt(text string) string {
	return fmt.Sprintf(extractionPromptTemplate, text)
}
