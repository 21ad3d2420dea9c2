package infra

import (
	"errors"
	"sync"
	"time"
)

// ErrBreakerAbierto se devuelve cuando el breaker rechaza la llamada sin
// intentarla. El worker de email lo trata como fallo reintentable.
var ErrBreakerAbierto = errors.New("servicio externo no disponible (breaker abierto)")

// Breaker protege al pool de workers de un relay SMTP caído: después de
// `umbral` fallos consecutivos deja de intentar durante `cooldown`, y luego
// deja pasar una sola llamada de prueba antes de volver a cerrar.
type Breaker struct {
	mu           sync.Mutex
	umbral       int
	cooldown     time.Duration
	fallos       int
	abiertoDesde time.Time
	probando     bool
}

func NewBreaker(umbral int, cooldown time.Duration) *Breaker {
	if umbral <= 0 {
		umbral = 5
	}
	if cooldown <= 0 {
		cooldown = time.Minute
	}
	return &Breaker{umbral: umbral, cooldown: cooldown}
}

// Execute corre fn salvo que el breaker esté abierto. Mientras está abierto
// toda llamada falla de inmediato con ErrBreakerAbierto; pasado el cooldown
// se admite una única llamada de prueba.
func (b *Breaker) Execute(fn func() error) error {
	if !b.permitir() {
		return ErrBreakerAbierto
	}

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.registrarFallo()
		return err
	}
	b.fallos = 0
	b.probando = false
	return nil
}

// Abierto informa si el breaker está rechazando llamadas. Se expone en el
// endpoint de health.
func (b *Breaker) Abierto() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fallos >= b.umbral && time.Since(b.abiertoDesde) < b.cooldown
}

func (b *Breaker) permitir() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.fallos < b.umbral {
		return true
	}
	if time.Since(b.abiertoDesde) < b.cooldown {
		return false
	}
	// Cooldown cumplido: una sola prueba a la vez.
	if b.probando {
		return false
	}
	b.probando = true
	return true
}

func (b *Breaker) registrarFallo() {
	b.fallos++
	b.probando = false
	if b.fallos >= b.umbral {
		b.abiertoDesde = time.Now()
	}
}
