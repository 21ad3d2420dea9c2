package service

import (
	"context"
	"errors"
	"time"

	"github.com/chris1983admin/quimexar/internal/dto"
	"github.com/chris1983admin/quimexar/internal/model"
	"github.com/chris1983admin/quimexar/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrEfectivoInsuficiente: un gasto no puede dejar el efectivo esperado
// en negativo.
var ErrEfectivoInsuficiente = errors.New("el gasto excede el efectivo disponible en caja")

// Umbrales de clasificación del desvío de cierre, en porcentaje sobre el
// total esperado. La clasificación se registra, nunca bloquea el cierre.
var (
	umbralAdvertencia = decimal.NewFromFloat(0.5)
	umbralCritico     = decimal.NewFromFloat(2.0)
)

type CajaService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*model.SesionCaja, error)
	// SesionAbierta devuelve la única sesión abierta o ErrSinSesionAbierta.
	SesionAbierta(ctx context.Context) (*model.SesionCaja, error)
	RegistrarGasto(ctx context.Context, req dto.GastoRequest) (*model.MovimientoCaja, error)
	TotalesEsperados(ctx context.Context, sesionID uuid.UUID) (*dto.TotalesEsperados, error)
	Cerrar(ctx context.Context, req dto.CerrarCajaRequest) (*dto.CierreCajaResponse, error)
	Detalle(ctx context.Context, sesionID uuid.UUID) (*model.SesionCaja, error)
	ListSesiones(ctx context.Context, page, limit int) ([]model.SesionCaja, int64, error)
}

type cajaService struct {
	repo repository.CajaRepository
}

func NewCajaService(repo repository.CajaRepository) CajaService {
	return &cajaService{repo: repo}
}

func (s *cajaService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*model.SesionCaja, error) {
	sesion := &model.SesionCaja{
		UsuarioID:    usuarioID,
		MontoInicial: req.MontoInicial,
		Estado:       model.SesionAbierta,
		OpenedAt:     time.Now(),
	}
	if err := s.repo.CreateSesion(ctx, sesion); err != nil {
		// El índice único parcial sobre estado='abierta' rechaza la segunda
		// apertura concurrente: el chequeo previo no alcanza, el índice sí.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCajaYaAbierta
		}
		return nil, err
	}
	log.Info().Str("sesion_id", sesion.ID.String()).Str("usuario_id", usuarioID.String()).Msg("sesión de caja abierta")
	return sesion, nil
}

func (s *cajaService) SesionAbierta(ctx context.Context) (*model.SesionCaja, error) {
	sesion, err := s.repo.FindSesionAbierta(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSinSesionAbierta
		}
		return nil, err
	}
	return sesion, nil
}

func (s *cajaService) RegistrarGasto(ctx context.Context, req dto.GastoRequest) (*model.MovimientoCaja, error) {
	sesion, err := s.SesionAbierta(ctx)
	if err != nil {
		return nil, err
	}

	esperado, err := s.TotalesEsperados(ctx, sesion.ID)
	if err != nil {
		return nil, err
	}
	if esperado.Efectivo.LessThan(req.Monto) {
		return nil, ErrEfectivoInsuficiente
	}

	mov := &model.MovimientoCaja{
		SesionCajaID: sesion.ID,
		Tipo:         model.MovimientoGasto,
		Monto:        req.Monto,
		Descripcion:  req.Descripcion,
	}
	if err := s.repo.CreateMovimiento(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// TotalesEsperados deriva lo que debería haber en caja agregando los
// movimientos: nunca lee un acumulador persistido.
func (s *cajaService) TotalesEsperados(ctx context.Context, sesionID uuid.UUID) (*dto.TotalesEsperados, error) {
	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, err
	}

	ventas, err := s.repo.SumVentasPorMetodo(ctx, sesionID)
	if err != nil {
		return nil, err
	}
	gastos, err := s.repo.SumGastos(ctx, sesionID)
	if err != nil {
		return nil, err
	}

	// Total suma las ventas de todos los métodos: la cuenta corriente no
	// aporta plata al cajón pero sí al total vendido de la sesión.
	total := ventas[model.MetodoEfectivo].
		Add(ventas[model.MetodoTarjeta]).
		Add(ventas[model.MetodoTransferencia]).
		Add(ventas[model.MetodoCuentaCorriente])

	return &dto.TotalesEsperados{
		Efectivo:        sesion.MontoInicial.Add(ventas[model.MetodoEfectivo]).Sub(gastos),
		Tarjeta:         ventas[model.MetodoTarjeta],
		Transferencia:   ventas[model.MetodoTransferencia],
		CuentaCorriente: ventas[model.MetodoCuentaCorriente],
		Gastos:          gastos,
		Total:           total,
	}, nil
}

// Cerrar hace el arqueo a ciegas: el cajero declara lo contado sin ver lo
// esperado; las diferencias se calculan y clasifican recién acá.
func (s *cajaService) Cerrar(ctx context.Context, req dto.CerrarCajaRequest) (*dto.CierreCajaResponse, error) {
	sesion, err := s.SesionAbierta(ctx)
	if err != nil {
		return nil, err
	}

	esperado, err := s.TotalesEsperados(ctx, sesion.ID)
	if err != nil {
		return nil, err
	}

	difEfectivo := req.ContadoEfectivo.Sub(esperado.Efectivo)
	difTarjeta := req.ContadoTarjeta.Sub(esperado.Tarjeta)
	difTransferencia := req.ContadoTransferencia.Sub(esperado.Transferencia)
	difTotal := difEfectivo.Add(difTarjeta).Add(difTransferencia)

	clasificacion := clasificarDiferencia(difTotal, esperado.Efectivo.Add(esperado.Tarjeta).Add(esperado.Transferencia))

	// El cierre se arma sobre una copia: el agregado leído no cambia de
	// estado hasta que el UPDATE condicional del repositorio lo confirme.
	now := time.Now()
	cierre := *sesion
	cierre.Estado = model.SesionCerrada
	cierre.ContadoEfectivo = &req.ContadoEfectivo
	cierre.ContadoTarjeta = &req.ContadoTarjeta
	cierre.ContadoTransferencia = &req.ContadoTransferencia
	cierre.ClasificacionDiferencia = &clasificacion
	cierre.Observaciones = req.Observaciones
	cierre.ClosedAt = &now

	if err := s.repo.CerrarSesion(ctx, &cierre); err != nil {
		if errors.Is(err, repository.ErrTransicionInvalida) {
			return nil, ErrSesionCerrada
		}
		return nil, err
	}

	log.Info().
		Str("sesion_id", sesion.ID.String()).
		Str("diferencia_total", difTotal.StringFixed(2)).
		Str("clasificacion", clasificacion).
		Msg("sesión de caja cerrada")

	return &dto.CierreCajaResponse{
		SesionID: sesion.ID.String(),
		Esperado: *esperado,
		Contado: dto.TotalesEsperados{
			Efectivo:      req.ContadoEfectivo,
			Tarjeta:       req.ContadoTarjeta,
			Transferencia: req.ContadoTransferencia,
		},
		Diferencias: dto.DiferenciaCierre{
			Efectivo:      difEfectivo,
			Tarjeta:       difTarjeta,
			Transferencia: difTransferencia,
			Total:         difTotal,
			Clasificacion: clasificacion,
		},
	}, nil
}

func clasificarDiferencia(dif, esperadoTotal decimal.Decimal) string {
	if dif.IsZero() {
		return "normal"
	}
	if esperadoTotal.IsZero() {
		return "critico"
	}
	pct := dif.Abs().Div(esperadoTotal).Mul(decimal.NewFromInt(100))
	switch {
	case pct.LessThanOrEqual(umbralAdvertencia):
		return "normal"
	case pct.LessThanOrEqual(umbralCritico):
		return "advertencia"
	default:
		return "critico"
	}
}

func (s *cajaService) Detalle(ctx context.Context, sesionID uuid.UUID) (*model.SesionCaja, error) {
	return s.repo.FindSesionByID(ctx, sesionID)
}

func (s *cajaService) ListSesiones(ctx context.Context, page, limit int) ([]model.SesionCaja, int64, error) {
	return s.repo.ListSesiones(ctx, page, limit)
}
