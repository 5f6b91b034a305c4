package server

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gridsheet/internal/calc"
	"gridsheet/internal/grid"
	"gridsheet/internal/textops"
)

// ApiController evaluates requests against a sheet built from the request
// body. It keeps no state between requests.
type ApiController struct {
	log *slog.Logger
}

type RangeRequest struct {
	Range string `json:"range" binding:"required"`
}

type CellJSON struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

type RangeResponse struct {
	Start CellJSON `json:"start"`
	End   CellJSON `json:"end"`
	Cells int      `json:"cells"`
}

type FormulaRequest struct {
	Formula string            `json:"formula" binding:"required"`
	Cells   map[string]string `json:"cells"`
}

// FormulaResponse omits Result when it is not a finite number; Display is
// then "#NUM!".
type FormulaResponse struct {
	Result  *float64 `json:"result,omitempty"`
	Display string   `json:"display"`
}

type TextRequest struct {
	Cell    string            `json:"cell"`
	Range   string            `json:"range"`
	Find    string            `json:"find"`
	Replace string            `json:"replace"`
	Cells   map[string]string `json:"cells"`
}

type TextResponse struct {
	Cells   map[string]string `json:"cells"`
	Changed int               `json:"changed"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

var ErrUnknownOperation = errors.New("unknown operation")

func NewApiController(log *slog.Logger) *ApiController {
	return &ApiController{log: log}
}

func (api *ApiController) RangeAction(c *gin.Context) {
	request := RangeRequest{}
	if err := c.ShouldBindJSON(&request); err != nil {
		api.badRequest(c, err)
		return
	}

	r, err := grid.ParseRange(strings.ToUpper(strings.TrimSpace(request.Range)))
	if err != nil {
		api.unprocessable(c, err)
		return
	}
	// the count of any parsed range fits: MaxRow*MaxColumn does not overflow
	c.JSON(http.StatusOK, RangeResponse{
		Start: CellJSON{Col: r.Start.Col, Row: r.Start.Row},
		End:   CellJSON{Col: r.End.Col, Row: r.End.Row},
		Cells: r.Cells(),
	})
}

func (api *ApiController) FormulaAction(c *gin.Context) {
	request := FormulaRequest{}
	if err := c.ShouldBindJSON(&request); err != nil {
		api.badRequest(c, err)
		return
	}

	sheet, err := sheetFromCells(request.Cells)
	if err != nil {
		api.unprocessable(c, err)
		return
	}
	result, err := calc.EvaluateFormula(request.Formula, sheet.CellTextAt)
	if err != nil {
		api.unprocessable(c, err)
		return
	}
	api.log.Debug("formula evaluated", "formula", request.Formula, "result", result)
	response := FormulaResponse{Display: calc.FormatResult(result)}
	if !math.IsNaN(result) && !math.IsInf(result, 0) {
		response.Result = &result
	}
	c.JSON(http.StatusOK, response)
}

func (api *ApiController) TextAction(c *gin.Context) {
	op := strings.ToLower(c.Param("op"))
	request := TextRequest{}
	if err := c.ShouldBindJSON(&request); err != nil {
		api.badRequest(c, err)
		return
	}

	sheet, err := sheetFromCells(request.Cells)
	if err != nil {
		api.unprocessable(c, err)
		return
	}

	changed := 0
	switch op {
	case "replace":
		var r grid.Range
		if r, err = parseRange(request.Range); err == nil {
			changed, err = textops.FindReplace(sheet, r, request.Find, request.Replace)
		}
	case "dedup":
		var r grid.Range
		if r, err = parseRange(request.Range); err == nil {
			changed, err = textops.RemoveDuplicates(sheet, r)
		}
	default:
		changed, err = applyTransform(sheet, op, request)
	}
	if err != nil {
		if errors.Is(err, ErrUnknownOperation) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Kind: errorKind(err)})
			return
		}
		api.unprocessable(c, err)
		return
	}
	c.JSON(http.StatusOK, TextResponse{Cells: cellsFromSheet(sheet), Changed: changed})
}

// applyTransform runs a per-cell transform on request.Cell, or on every cell
// of request.Range when no single cell is given.
func applyTransform(sheet *grid.Sheet, op string, request TextRequest) (int, error) {
	transform, err := textops.Lookup(op)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	var r grid.Range
	if request.Cell != "" {
		ref, err := grid.ParseCellRef(strings.ToUpper(strings.TrimSpace(request.Cell)))
		if err != nil {
			return 0, err
		}
		r = grid.NewRange(ref, ref)
	} else if r, err = parseRange(request.Range); err != nil {
		return 0, err
	}
	return textops.ApplyRange(sheet, r, transform)
}

func parseRange(text string) (grid.Range, error) {
	return grid.ParseRange(strings.ToUpper(strings.TrimSpace(text)))
}

func sheetFromCells(cells map[string]string) (*grid.Sheet, error) {
	sheet := grid.NewSheet(1, 1, grid.MinColWidth, grid.MinRowHeight)
	for name, text := range cells {
		ref, err := grid.ParseCellRef(strings.ToUpper(strings.TrimSpace(name)))
		if err != nil {
			return nil, err
		}
		row, col := ref.Index()
		sheet.Set(row, col, text)
	}
	return sheet, nil
}

func cellsFromSheet(sheet *grid.Sheet) map[string]string {
	out := make(map[string]string, len(sheet.Cells))
	for k, cell := range sheet.Cells {
		if cell.Text != "" {
			out[grid.RefAt(k[0], k[1]).String()] = cell.Text
		}
	}
	return out
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, textops.ErrEmptySearch):
		return "EmptySearch"
	case errors.Is(err, ErrUnknownOperation):
		return "UnknownOperation"
	}
	return calc.Kind(err)
}

func (api *ApiController) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "BadRequest"})
}

func (api *ApiController) unprocessable(c *gin.Context, err error) {
	api.log.Debug("request rejected", "path", c.FullPath(), "err", err)
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Kind: errorKind(err)})
}
