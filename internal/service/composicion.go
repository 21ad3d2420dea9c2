package service

// composicion.go — motor de composición de ventas.
// Funciones puras: resuelven precios, promociones y snapshots sin tocar
// base de datos ni estado compartido. La conservación de totales
// (total = subtotal - ahorro) sale de la construcción, no de un redondeo.

import (
	"github.com/chris1983admin/quimexar/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var cien = decimal.NewFromInt(100)

// LineaCarrito es una línea ya resuelta contra el catálogo: exactamente uno
// de Producto/Combo es no-nil.
type LineaCarrito struct {
	Producto *model.Producto
	Combo    *model.Combo
	Cantidad int
}

// LineaPreciada es el snapshot inmutable de una línea cobrada. Subtotal es
// el monto autoritativo; Precio es el unitario efectivo (informativo,
// redondeado a 2 decimales).
type LineaPreciada struct {
	ProductoID     *uuid.UUID
	ComboID        *uuid.UUID
	Nombre         string
	Cantidad       int
	Precio         decimal.Decimal
	PrecioOriginal decimal.Decimal
	DescuentoPct   decimal.Decimal
	Subtotal       decimal.Decimal
}

// ResumenVenta es el resultado de componer un carrito.
type ResumenVenta struct {
	Subtotal decimal.Decimal
	Ahorro   decimal.Decimal
	Total    decimal.Decimal
	Lineas   []LineaPreciada
}

// ComponerVenta aplica precios y promociones a un carrito resuelto.
// promos indexa la promoción activa por producto; los combos nunca
// reciben promociones (su precio ya es preferencial).
func ComponerVenta(lineas []LineaCarrito, promos map[uuid.UUID]model.Promocion) (*ResumenVenta, error) {
	resumen := &ResumenVenta{
		Subtotal: decimal.Zero,
		Ahorro:   decimal.Zero,
		Total:    decimal.Zero,
	}

	for _, linea := range lineas {
		if (linea.Producto == nil) == (linea.Combo == nil) {
			return nil, ErrLineaAmbigua
		}

		var preciada LineaPreciada
		if linea.Combo != nil {
			preciada = preciarCombo(linea.Combo, linea.Cantidad)
		} else {
			promo, hayPromo := promos[linea.Producto.ID]
			preciada = preciarProducto(linea.Producto, linea.Cantidad, promo, hayPromo)
		}

		bruto := preciada.PrecioOriginal.Mul(decimal.NewFromInt(int64(preciada.Cantidad)))
		resumen.Subtotal = resumen.Subtotal.Add(bruto)
		resumen.Total = resumen.Total.Add(preciada.Subtotal)
		resumen.Lineas = append(resumen.Lineas, preciada)
	}

	resumen.Ahorro = resumen.Subtotal.Sub(resumen.Total)
	return resumen, nil
}

func preciarCombo(c *model.Combo, cantidad int) LineaPreciada {
	id := c.ID
	total := c.Precio.Mul(decimal.NewFromInt(int64(cantidad)))
	return LineaPreciada{
		ComboID:        &id,
		Nombre:         c.Nombre,
		Cantidad:       cantidad,
		Precio:         c.Precio,
		PrecioOriginal: c.Precio,
		DescuentoPct:   decimal.Zero,
		Subtotal:       total,
	}
}

func preciarProducto(p *model.Producto, cantidad int, promo model.Promocion, hayPromo bool) LineaPreciada {
	id := p.ID
	cant := decimal.NewFromInt(int64(cantidad))
	bruto := p.Precio.Mul(cant)

	total := bruto
	if hayPromo {
		total = aplicarPromocion(p.Precio, cantidad, promo)
	}

	preciada := LineaPreciada{
		ProductoID:     &id,
		Nombre:         p.Nombre,
		Cantidad:       cantidad,
		PrecioOriginal: p.Precio,
		Subtotal:       total,
	}
	preciada.Precio = total.Div(cant).Round(2)
	if bruto.IsPositive() {
		preciada.DescuentoPct = bruto.Sub(total).Div(bruto).Mul(cien).Round(2)
	} else {
		preciada.DescuentoPct = decimal.Zero
	}
	return preciada
}

// aplicarPromocion devuelve el total a cobrar por la línea.
//
// buy_x_get_y: por cada grupo completo de cantidad_compra unidades se cobran
// cantidad_paga; las unidades fuera de grupo completo se cobran plenas.
// Monótono: más unidades nunca pagan más por unidad.
//
// percentage_on_second: por cada PAR completo, la segunda unidad lleva el
// porcentaje de descuento; la unidad impar se cobra plena.
func aplicarPromocion(precio decimal.Decimal, cantidad int, promo model.Promocion) decimal.Decimal {
	bruto := precio.Mul(decimal.NewFromInt(int64(cantidad)))

	switch promo.Tipo {
	case model.PromoBuyXGetY:
		if promo.CantidadPaga == nil || promo.CantidadCompra <= 0 {
			return bruto
		}
		grupos := cantidad / promo.CantidadCompra
		gratis := grupos * (promo.CantidadCompra - *promo.CantidadPaga)
		if gratis <= 0 {
			return bruto
		}
		cobradas := cantidad - gratis
		return precio.Mul(decimal.NewFromInt(int64(cobradas)))

	case model.PromoPorcentajeSegunda:
		if promo.PorcentajeDescuento == nil {
			return bruto
		}
		pares := cantidad / 2
		if pares == 0 {
			return bruto
		}
		descuento := precio.
			Mul(promo.PorcentajeDescuento.Div(cien)).
			Mul(decimal.NewFromInt(int64(pares)))
		return bruto.Sub(descuento)

	default:
		return bruto
	}
}

// IndexarPromociones arma el índice producto → promoción activa. Ante más de
// una promoción activa para el mismo producto gana la primera de la lista.
func IndexarPromociones(promos []model.Promocion) map[uuid.UUID]model.Promocion {
	idx := make(map[uuid.UUID]model.Promocion, len(promos))
	for _, p := range promos {
		if !p.Activa {
			continue
		}
		if _, ok := idx[p.ProductoID]; !ok {
			idx[p.ProductoID] = p
		}
	}
	return idx
}
