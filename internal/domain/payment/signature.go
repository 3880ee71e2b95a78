package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"strings"
)

// Sign calcula la firma HMAC-SHA512 en hex del cuerpo crudo con el secreto compartido.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compara en tiempo constante la firma recibida contra la esperada
// sobre el cuerpo crudo exacto (sin parsear). Firma vacía o mal formada → false.
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected := Sign(secret, body)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// EventHash calcula el hash de contenido SHA-256 (hex) del cuerpo crudo.
// Es la llave de deduplicación: dos entregas con el mismo cuerpo tienen el mismo hash.
func EventHash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
