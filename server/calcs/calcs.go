// Package calcs has services for interacting with the calculator server
// backend decoupled from the API that accesses it.
package calcs

import (
	"github.com/dekarrin/tunacalc"
	"github.com/dekarrin/tunacalc/reduce"
	"github.com/dekarrin/tunacalc/server/dao"
)

// DefaultMaxExprLength is used when Service.MaxExprLength is not positive.
const DefaultMaxExprLength = 4096

// Service is a service for interacting with and modifying the calculator
// server backend. It performs the actions requested and makes calls to server
// persistence to preserve the backend state.
//
// The zero-value of Service is not ready to be used; assign a valid DAO store
// to DB and a Calculator to Calc before attempting to use it.
type Service struct {

	// DB is the persistence store of the service.
	DB dao.Store

	// Calc evaluates expressions. Its memory holds constants shared by every
	// user; requests never modify it.
	Calc *tunacalc.Calculator

	// MaxExprLength is the longest expression, in bytes, that will be
	// evaluated.
	MaxExprLength int
}

func (svc Service) maxExprLength() int {
	if svc.MaxExprLength <= 0 {
		return DefaultMaxExprLength
	}
	return svc.MaxExprLength
}

// EngineInfo describes what the service's calculator will accept.
type EngineInfo struct {
	MaxExprLength int
	MaxDepth      int

	// Functions are the names of the user functions loaded from the calc
	// file, in addition to the built-in ones.
	Functions []string
}

// Engine returns the limits and loaded functions of the calculator.
func (svc Service) Engine() EngineInfo {
	info := EngineInfo{
		MaxExprLength: svc.maxExprLength(),
		MaxDepth:      reduce.DefaultMaxDepth,
		Functions:     []string{},
	}
	if svc.Calc == nil {
		return info
	}
	if d := svc.Calc.MaxDepth(); d > 0 {
		info.MaxDepth = d
	}
	for _, fn := range svc.Calc.Functions() {
		info.Functions = append(info.Functions, fn.Name)
	}
	return info
}
