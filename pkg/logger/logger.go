// Package logger provides standardized logging utilities for the orc compiler core.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Global logger instance
var defaultLogger *zap.SugaredLogger

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Config holds logger configuration
type Config struct {
	Level     LogLevel
	Format    string // "text" or "json"
	Output    io.Writer
	AddSource bool
	LogFile   string
}

// DefaultConfig returns the default logger configuration
func DefaultConfig() Config {
	return Config{
		Level:     LevelInfo,
		Format:    "text",
		Output:    os.Stderr,
		AddSource: false,
	}
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) error {
	var sink zapcore.WriteSyncer
	switch {
	case cfg.LogFile != "":
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		sink = zapcore.AddSync(file)
	case cfg.Output != nil:
		sink = zapcore.AddSync(cfg.Output)
	default:
		sink = zapcore.AddSync(os.Stderr)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if cfg.Format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, sink, toZapLevel(cfg.Level))

	var opts []zap.Option
	if cfg.AddSource {
		opts = append(opts, zap.AddCaller())
	}

	defaultLogger = zap.New(core, opts...).Sugar()

	return nil
}

// InitDev initializes logging for development (debug level, text format)
func InitDev() {
	_ = Init(Config{
		Level:     LevelDebug,
		Format:    "text",
		Output:    os.Stderr,
		AddSource: true,
	})
}

// InitProd initializes logging for production (info level, json format)
func InitProd(logDir string) error {
	logPath := filepath.Join(logDir, "orc-compiler.log")
	return Init(Config{
		Level:     LevelInfo,
		Format:    "json",
		LogFile:   logPath,
		AddSource: false,
	})
}

func toZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Debugw(msg, args...)
	}
}

// Info logs an info message
func Info(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Infow(msg, args...)
	}
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Warnw(msg, args...)
	}
}

// Error logs an error message
func Error(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Errorw(msg, args...)
	}
}

// With returns a new logger with the given attributes
func With(args ...any) *zap.SugaredLogger {
	if defaultLogger != nil {
		return defaultLogger.With(args...)
	}
	return zap.NewNop().Sugar().With(args...)
}

// Pipeline-specific logging helpers

// LogPhase logs the start of a pipeline phase (Validator, RuleBinder,
// LivenessRewriter, GlobalAllocator, LocalAllocator, ...).
func LogPhase(phase string) {
	Debug("starting compile phase", "phase", phase)
}

// LogPhaseComplete logs the completion of a pipeline phase.
func LogPhaseComplete(phase string) {
	Debug("completed compile phase", "phase", phase)
}

// LogLiveness logs liveness-rewriter activity: how many temps were
// duplicated out of how many instructions walked.
func LogLiveness(instructionCount int, dupCount int) {
	Debug("liveness rewrite complete", "instructions", instructionCount, "duplicated_temps", dupCount)
}

// LogGlobalAlloc logs global allocator activity.
func LogGlobalAlloc(varCount int, loopCounterAllocated bool) {
	Debug("global allocation complete", "variables", varCount, "loop_counter", loopCounterAllocated)
}

// LogLocalAlloc logs local allocator activity.
func LogLocalAlloc(instructionCount int, chainedCount int) {
	Debug("local allocation complete", "instructions", instructionCount, "chained_operands", chainedCount)
}

// LogConstantPool logs constant pool dedup stats.
func LogConstantPool(entryCount int, totalUses int) {
	Debug("constant pool populated", "entries", entryCount, "uses", totalUses)
}

// LogCodeGen logs backend code generation.
func LogCodeGen(target string, instructionCount int, codeSize int) {
	Debug("code generation complete",
		"target", target,
		"instructions", instructionCount,
		"code_size", codeSize)
}

// LogError logs a compilation error raised by a named phase.
func LogError(phase string, err error) {
	Error("compilation error", "phase", phase, "error", err)
}

// LogWarning logs a non-fatal compilation warning raised by a named phase.
func LogWarning(phase string, msg string) {
	Warn("compilation warning", "phase", phase, "message", msg)
}

// LogCompilerStart logs the start of a compilation against a named target.
func LogCompilerStart(target string) {
	Info("orc compiler starting", "target", target)
}

// LogCompilerComplete logs compiler completion with its result code.
func LogCompilerComplete(result string, codeSize int) {
	Info("compilation complete", "result", result, "code_size", codeSize)
}
