package models

import (
	"fmt"
	"strings"
)

// Типизация ошибок движка: цикл опроса решает по типу, падать нельзя никогда.

// TransportError — сеть/таймаут. Логируем, бэкофф, продолжаем.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: transport: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// AuthError — биржа отклонила подпись/ключ. Критично в логах, но цикл живёт:
// ключи могут быть временно невалидны.
type AuthError struct {
	Op  string
	Msg string
}

func (e *AuthError) Error() string { return fmt.Sprintf("%s: auth: %s", e.Op, e.Msg) }

// RejectedOrderError — ордер отклонён на стороне биржи (EOrder/EFunds).
type RejectedOrderError struct {
	Op   string
	Msgs []string
}

func (e *RejectedOrderError) Error() string {
	return fmt.Sprintf("%s: order rejected: %s", e.Op, strings.Join(e.Msgs, "; "))
}

// DataError — битые/неожиданные данные. Текущий цикл считается Hold.
type DataError struct {
	Msg string
}

func (e *DataError) Error() string { return "data: " + e.Msg }

// InsufficientDataError — серия короче окна индикатора.
type InsufficientDataError struct {
	Need int
	Got  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need %d candles, got %d", e.Need, e.Got)
}
