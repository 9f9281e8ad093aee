package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	admini18n "github.com/louisbranch/autofix/internal/services/admin/i18n"
)

func render(t *testing.T, component templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := component.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestVehiclesTableRendersOneRowPerVehicle(t *testing.T) {
	t.Parallel()

	view := VehiclesListView{Rows: []VehicleRow{{
		ID:                 1,
		LicensePlateNumber: "AB123CD",
		Brand:              "Ford",
		Model:              "Fiesta",
		Type:               "Sedan",
		ManufactureYear:    2019,
		EngineType:         "Gasoline",
	}}}
	got := render(t, VehiclesTable(view, echoLocalizer{}))

	if n := strings.Count(got, "<tr data-vehicle-id="); n != 1 {
		t.Fatalf("expected one row, got %d: %s", n, got)
	}
	for _, cell := range []string{"<td>AB123CD</td>", "<td>Ford</td>", "<td>Fiesta</td>", "<td>Sedan</td>", "<td>2019</td>", "<td>Gasoline</td>"} {
		if !strings.Contains(got, cell) {
			t.Fatalf("missing cell %s in %s", cell, got)
		}
	}
	for _, control := range []string{"[vehicles.action.edit]", "[vehicles.action.delete]", "[vehicles.action.create]"} {
		if !strings.Contains(got, control) {
			t.Fatalf("missing control %s", control)
		}
	}
	if !strings.Contains(got, `<input type="hidden" name="vehicle_id" value="1">`) {
		t.Fatalf("missing row id input: %s", got)
	}
	if strings.Index(got, "[vehicles.action.create]") > strings.Index(got, "<table") {
		t.Fatal("create control must sit above the table")
	}
}

func TestVehiclesTablePreservesOrderAndEscapes(t *testing.T) {
	t.Parallel()

	view := VehiclesListView{Rows: []VehicleRow{
		{ID: 9, LicensePlateNumber: "ZZZ", Brand: `<script>alert("x")</script>`},
		{ID: 2, LicensePlateNumber: "AAA"},
	}}
	got := render(t, VehiclesTable(view, nil))

	if strings.Contains(got, "<script>") {
		t.Fatalf("brand was not escaped: %s", got)
	}
	if strings.Index(got, `data-vehicle-id="9"`) > strings.Index(got, `data-vehicle-id="2"`) {
		t.Fatal("rows must keep the given order")
	}
}

func TestVehiclesTableEmpty(t *testing.T) {
	t.Parallel()

	got := render(t, VehiclesTable(VehiclesListView{}, nil))
	if strings.Contains(got, "<tr data-vehicle-id=") {
		t.Fatal("expected no rows")
	}
	if !strings.Contains(got, "vehicles.column.plate") {
		t.Fatal("expected headers on empty table")
	}
}

func TestDeleteDialog(t *testing.T) {
	t.Parallel()

	got := render(t, DeleteDialog(DeleteDialogView{VehicleID: 5, PromptKey: "vehicles.confirm.delete"}, echoLocalizer{}))
	for _, want := range []string{
		`action="/vehicles/delete/5"`,
		"[vehicles.confirm.delete]",
		`name="confirm" value="yes"`,
		`name="confirm" value="no"`,
		`id="vehicles"`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("dialog missing %s: %s", want, got)
		}
	}
}

func TestVehicleFormKeepsValuesAndError(t *testing.T) {
	t.Parallel()

	got := render(t, VehicleForm(VehicleFormView{
		TitleKey:           "vehicles.form.edit_title",
		Action:             "/vehicles/edit/3",
		LicensePlateNumber: "AB123CD",
		ManufactureYear:    "19x9",
		Error:              "Plate taken",
	}, echoLocalizer{}))
	for _, want := range []string{
		`action="/vehicles/edit/3"`,
		`name="licensePlateNumber" value="AB123CD"`,
		`name="manufactureYear" value="19x9"`,
		`role="alert"`,
		"Plate taken",
		"[vehicles.form.edit_title]",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("form missing %s: %s", want, got)
		}
	}
}

func TestLayoutWrapsContent(t *testing.T) {
	t.Parallel()

	page := PageContext{
		Lang:        "es",
		Loc:         echoLocalizer{},
		CurrentPath: "/vehicles",
		Languages:   admini18n.LanguageOptions(admini18n.Default()),
	}
	got := render(t, VehiclesPage(page, VehiclesListView{}))
	for _, want := range []string{
		"<!doctype html>",
		`<html lang="es">`,
		`href="/static/app.css"`,
		`href="/vehicles?lang=es"`,
		`aria-current="true"`,
		`id="vehicles"`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("page missing %s: %s", want, got)
		}
	}
}

func TestLayoutDefaultsToSpanish(t *testing.T) {
	t.Parallel()

	got := render(t, ErrorPage(PageContext{}, "core.error.not_found"))
	if !strings.Contains(got, `<html lang="es">`) {
		t.Fatalf("page without a language must render Spanish: %s", got)
	}
}

func TestActionFormEscapesHiddenInputs(t *testing.T) {
	t.Parallel()

	got := render(t, actionForm(`x"><script>`, 7, "<b>go</b>", `btn"`))
	if strings.Contains(got, "<script>") || strings.Contains(got, "<b>") {
		t.Fatalf("action form did not escape its values: %s", got)
	}
	for _, want := range []string{
		`<input type="hidden" name="action" value="x&#34;&gt;&lt;script&gt;">`,
		`<input type="hidden" name="vehicle_id" value="7">`,
		`hx-target="#vehicles"`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("action form missing %s: %s", want, got)
		}
	}
}

func TestVehicleFormHasOptionalMileage(t *testing.T) {
	t.Parallel()

	got := render(t, VehicleForm(VehicleFormView{TitleKey: "vehicles.form.create_title", Action: "/vehicles/create", Mileage: "15000"}, echoLocalizer{}))
	if !strings.Contains(got, `<input type="number" name="mileage" value="15000">`) {
		t.Fatalf("mileage input missing or marked required: %s", got)
	}
	if !strings.Contains(got, `name="brand" value="" required>`) {
		t.Fatalf("brand input must be required: %s", got)
	}
	if !strings.Contains(got, "[vehicles.column.mileage]") {
		t.Fatalf("mileage label missing: %s", got)
	}
}

func TestErrorPage(t *testing.T) {
	t.Parallel()

	got := render(t, ErrorPage(PageContext{Loc: echoLocalizer{}}, "core.error.not_found"))
	if !strings.Contains(got, "[core.error.not_found]") {
		t.Fatalf("error page missing message: %s", got)
	}
}
