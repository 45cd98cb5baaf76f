package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// BuildRouteKey строит ключ кэша для результата MC (неограниченный кратчайший
// путь origin->destination). Граф неизменен на протяжении одного прогона, так
// что пара зон origin/destination однозначно определяет результат.
func BuildRouteKey(origin, destination string) string {
	return fmt.Sprintf("route:mc:%s:%s", origin, destination)
}

// BuildCheckpointRouteKey строит ключ кэша для результата MC2 (маршрут через
// контрольный пункт). Включает origin/checkpoint/destination, так как один
// и тот же контрольный пункт может обслуживать разные OD-пары.
func BuildCheckpointRouteKey(origin, checkpoint, destination string) string {
	return fmt.Sprintf("route:mc2:%s:%s:%s", origin, checkpoint, destination)
}

// QuickHash быстрый хеш для произвольных данных
func QuickHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ShortHash короткий хеш (16 символов)
func ShortHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}
