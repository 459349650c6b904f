// Package catalog lee catálogos de carga inicial en XML (ubicaciones, proveedores y artículos).
//
// Formato esperado:
//
//	<catalog>
//	  <locations>
//	    <location code="WH-001" type="WAREHOUSE" name="Bodega principal" address="Calle 1"/>
//	  </locations>
//	  <suppliers>
//	    <supplier tax_id="900123456" name="Ferretería Central" email="compras@central.co"/>
//	  </suppliers>
//	  <items>
//	    <item sku="MAR-001" name="Martillo" quantity="50" unit_price="19.99" location="WH-001" supplier="900123456">
//	      <description>Martillo de uña 16oz</description>
//	    </item>
//	  </items>
//	</catalog>
//
// Los archivos exportados desde sistemas legados suelen venir en ISO-8859-1 o Windows-1252.
package catalog

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventory-manager/internal/application/dto"
)

// Parse lee el catálogo. Los errores indican el elemento y el atributo problemático.
func Parse(r io.Reader) (*dto.CatalogDTO, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("catalog: leer XML: %w", err)
	}
	root := doc.SelectElement("catalog")
	if root == nil {
		return nil, fmt.Errorf("catalog: falta el elemento raíz <catalog>")
	}

	out := &dto.CatalogDTO{}
	for _, el := range root.FindElements("./locations/location") {
		out.Locations = append(out.Locations, dto.CreateLocationRequest{
			Code:    attr(el, "code"),
			Name:    attr(el, "name"),
			Address: attr(el, "address"),
			Type:    strings.ToUpper(attr(el, "type")),
		})
	}
	for _, el := range root.FindElements("./suppliers/supplier") {
		out.Suppliers = append(out.Suppliers, dto.CreateSupplierRequest{
			TaxID:         attr(el, "tax_id"),
			Name:          attr(el, "name"),
			Email:         attr(el, "email"),
			Phone:         attr(el, "phone"),
			Address:       attr(el, "address"),
			ContactPerson: attr(el, "contact_person"),
		})
	}
	for i, el := range root.FindElements("./items/item") {
		it, err := parseItem(el)
		if err != nil {
			return nil, fmt.Errorf("catalog: item %d (%s): %w", i+1, attr(el, "sku"), err)
		}
		out.Items = append(out.Items, it)
	}
	return out, nil
}

func parseItem(el *etree.Element) (dto.CatalogItemDTO, error) {
	req := dto.CreateItemRequest{
		SKU:    attr(el, "sku"),
		Name:   attr(el, "name"),
		Status: strings.ToUpper(attr(el, "status")),
	}
	if d := el.SelectElement("description"); d != nil {
		req.Description = strings.TrimSpace(d.Text())
	}
	if raw := attr(el, "quantity"); raw != "" {
		q, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return dto.CatalogItemDTO{}, fmt.Errorf("quantity %q: %w", raw, err)
		}
		req.Quantity = q
	}
	if raw := attr(el, "unit_price"); raw != "" {
		// Acepta coma decimal ("19,99")
		p, err := decimal.NewFromString(strings.Replace(raw, ",", ".", 1))
		if err != nil {
			return dto.CatalogItemDTO{}, fmt.Errorf("unit_price %q: %w", raw, err)
		}
		req.UnitPrice = p
	}
	return dto.CatalogItemDTO{
		Request:       req,
		LocationCode:  attr(el, "location"),
		SupplierTaxID: attr(el, "supplier"),
	}, nil
}

func attr(el *etree.Element, key string) string {
	return strings.TrimSpace(el.SelectAttrValue(key, ""))
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "iso-8859-1", "iso8859-1", "latin1":
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
	case "utf-8", "":
		return input, nil
	}
	return nil, fmt.Errorf("codificación no soportada: %s", label)
}
