package service

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"car-sales-agent/domain"
)

// Nombres del conjunto cerrado de herramientas invocables por el modelo.
const (
	ToolSearchCars         = "search_cars"
	ToolCalculateFinancing = "calculate_financing"
	ToolFinancingOptions   = "get_financing_options"
)

// ToolDescriptor describe una herramienta para el modelo de lenguaje:
// nombre, propósito y esquema JSON de sus parámetros.
type ToolDescriptor struct {
	Name        string
	Description string
	Parameters  map[string]any
}

type toolEntry struct {
	descriptor ToolDescriptor
	resolved   *jsonschema.Resolved
	handler    func(ctx context.Context, rawArgs json.RawMessage) (string, error)
}

// ToolRegistry mapea el conjunto fijo de herramientas a sus handlers sobre
// CatalogService y FinancingService. Los argumentos se validan contra el
// mismo esquema que se le muestra al modelo.
type ToolRegistry struct {
	entries []*toolEntry
	byName  map[string]*toolEntry
}

// searchCarsArgs son los parámetros de search_cars. Todos opcionales: un
// campo ausente no restringe la búsqueda.
type searchCarsArgs struct {
	Make     *string  `json:"make,omitempty" description:"Marca del auto"`
	Model    *string  `json:"model,omitempty" description:"Modelo del auto"`
	MinPrice *float64 `json:"min_price,omitempty" description:"Precio mínimo"`
	MaxPrice *float64 `json:"max_price,omitempty" description:"Precio máximo"`
	MaxKM    *int     `json:"max_km,omitempty" description:"Kilómetros máximos"`
	MinYear  *int     `json:"min_year,omitempty" description:"Año mínimo"`
	MaxYear  *int     `json:"max_year,omitempty" description:"Año máximo"`
	Limit    *int     `json:"limit,omitempty" description:"Número máximo de resultados"`
}

type calculateFinancingArgs struct {
	CarPrice    float64 `json:"car_price" description:"Precio del auto"`
	DownPayment float64 `json:"down_payment" description:"Enganche"`
	Years       int     `json:"years" description:"Años de financiamiento (3-6)"`
}

type financingOptionsArgs struct {
	CarPrice    float64  `json:"car_price" description:"Precio del auto"`
	DownPayment *float64 `json:"down_payment,omitempty" description:"Enganche (opcional)"`
}

// NewToolRegistry construye el registro con las tres herramientas del
// asistente. Falla solo si la generación de esquemas falla.
func NewToolRegistry(
	catalog *CatalogService,
	financing *FinancingService,
) (*ToolRegistry, error) {

	r := &ToolRegistry{byName: make(map[string]*toolEntry)}

	if err := registerTool(r, ToolSearchCars,
		"Buscar autos en el catálogo según criterios específicos",
		func(_ context.Context, args searchCarsArgs) (string, error) {
			limit := DefaultSearchLimit
			if args.Limit != nil {
				limit = *args.Limit
			}
			cars := catalog.SearchCars(domain.CarFilter{
				Make:     args.Make,
				Model:    args.Model,
				MinPrice: args.MinPrice,
				MaxPrice: args.MaxPrice,
				MaxKM:    args.MaxKM,
				MinYear:  args.MinYear,
				MaxYear:  args.MaxYear,
			}, limit)
			return formatCarResults(cars), nil
		}); err != nil {
		return nil, err
	}

	if err := registerTool(r, ToolCalculateFinancing,
		"Calcular plan de financiamiento para un auto",
		func(_ context.Context, args calculateFinancingArgs) (string, error) {
			plan, err := financing.Calculate(domain.FinancingRequest{
				CarPrice:    args.CarPrice,
				DownPayment: args.DownPayment,
				Years:       args.Years,
			})
			if err != nil {
				// Error de validación del dominio: se devuelve como texto
				// para que el modelo lo explique y el diálogo continúe.
				if isValidationError(err) {
					return err.Error(), nil
				}
				return "", err
			}
			return formatFinancingPlan(plan), nil
		}); err != nil {
		return nil, err
	}

	if err := registerTool(r, ToolFinancingOptions,
		"Obtener múltiples opciones de financiamiento",
		func(_ context.Context, args financingOptionsArgs) (string, error) {
			options := financing.GetOptions(args.CarPrice, args.DownPayment)
			return formatFinancingOptions(options), nil
		}); err != nil {
		return nil, err
	}

	return r, nil
}

// registerTool genera el esquema para T y registra la herramienta con un
// handler tipado.
func registerTool[T any](
	r *ToolRegistry,
	name, description string,
	fn func(ctx context.Context, args T) (string, error),
) error {

	params, resolved, err := schemaFor[T]()
	if err != nil {
		return err
	}

	entry := &toolEntry{
		descriptor: ToolDescriptor{
			Name:        name,
			Description: description,
			Parameters:  params,
		},
		resolved: resolved,
		handler: func(ctx context.Context, rawArgs json.RawMessage) (string, error) {
			var args T
			if err := json.Unmarshal(rawArgs, &args); err != nil {
				return "", &InvalidArgumentsError{Tool: name, Err: err}
			}
			return fn(ctx, args)
		},
	}
	r.entries = append(r.entries, entry)
	r.byName[name] = entry
	return nil
}

// Descriptors devuelve las herramientas en orden de registro, listas para
// adjuntarse a una petición de chat-completion.
func (r *ToolRegistry) Descriptors() []ToolDescriptor {
	out := make([]ToolDescriptor, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.descriptor)
	}
	return out
}

// Dispatch valida rawArgs contra el esquema de la herramienta y la ejecuta.
// Siempre produce un resultado textual o un error tipado: UnknownToolError
// para nombres no registrados, InvalidArgumentsError para argumentos que no
// cumplen el esquema. Los errores de validación del dominio ya vienen
// convertidos a texto por el handler.
func (r *ToolRegistry) Dispatch(
	ctx context.Context,
	name string,
	rawArgs json.RawMessage,
) (string, error) {

	entry, ok := r.byName[name]
	if !ok {
		return "", &UnknownToolError{Name: name}
	}

	if len(rawArgs) == 0 {
		rawArgs = json.RawMessage("{}")
	}
	var v any
	if err := json.Unmarshal(rawArgs, &v); err != nil {
		return "", &InvalidArgumentsError{Tool: name, Err: err}
	}
	if err := entry.resolved.Validate(v); err != nil {
		return "", &InvalidArgumentsError{Tool: name, Err: err}
	}

	return entry.handler(ctx, rawArgs)
}

// isValidationError reconoce los errores de dominio recuperables localmente.
func isValidationError(err error) bool {
	var termErr *InvalidTermError
	var dpErr *InvalidDownPaymentError
	return errors.As(err, &termErr) || errors.As(err, &dpErr)
}

// schemaFor genera el esquema JSON del struct de argumentos T y lo compila
// para validar invocaciones entrantes. Un mismo struct alimenta el esquema
// que ve el modelo y la validación de sus respuestas.
func schemaFor[T any]() (map[string]any, *jsonschema.Resolved, error) {
	schema, err := jsonschema.For[T](&jsonschema.ForOptions{})
	if err != nil {
		return nil, nil, err
	}

	data, err := json.Marshal(schema)
	if err != nil {
		return nil, nil, err
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(data, &schemaMap); err != nil {
		return nil, nil, err
	}
	addFieldDescriptions(schemaMap, reflect.TypeOf(*new(T)))

	resolved, err := compileSchema(schemaMap)
	if err != nil {
		return nil, nil, err
	}
	return schemaMap, resolved, nil
}

// addFieldDescriptions copia el tag `description` de cada campo del struct a
// la propiedad correspondiente del esquema.
func addFieldDescriptions(schemaMap map[string]any, typ reflect.Type) {
	if typ == nil || typ.Kind() != reflect.Struct {
		return
	}
	props, ok := schemaMap["properties"].(map[string]any)
	if !ok {
		return
	}

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		jsonName := strings.Split(field.Tag.Get("json"), ",")[0]
		if jsonName == "" || jsonName == "-" {
			continue
		}
		prop, ok := props[jsonName].(map[string]any)
		if !ok {
			continue
		}
		if desc := field.Tag.Get("description"); desc != "" {
			prop["description"] = desc
		}
	}
}

func compileSchema(schemaMap map[string]any) (*jsonschema.Resolved, error) {
	data, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, err
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return s.Resolve(nil)
}
