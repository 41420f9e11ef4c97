package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// tokenBytes はセッショントークンのバイト長。256ビットのエントロピーを持つ。
const tokenBytes = 32

// generateToken は暗号的に安全なセッショントークンを生成する。
// 生成されたトークンは発行時に一度だけクライアントへ返され、
// ストレージにはハッシュのみが保存される。
func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// hashToken はトークンのSHA-256ハッシュをhex文字列で返す。
// トークンは高エントロピーの乱数であるためパスワード用KDFは不要。
// 照合はハッシュの完全一致によるインデックスルックアップで行われ、
// 入力値に依存した時間差は生じない。
func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
