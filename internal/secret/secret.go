package secret

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const envKey = "SECRET_KEY"

// LoadOrCreate читает ключ подписи из env-файла, а при его отсутствии
// генерирует новый и дописывает в файл
func LoadOrCreate(path string) ([]byte, error) {
	if vars, err := godotenv.Read(path); err == nil {
		if enc, ok := vars[envKey]; ok && enc != "" {
			key, err := base64.RawURLEncoding.DecodeString(enc)
			if err != nil {
				return nil, fmt.Errorf("decode %s: %w", envKey, err)
			}
			return key, nil
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	enc := base64.RawURLEncoding.EncodeToString(key)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "%s=%s\n", envKey, enc); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return key, nil
}
