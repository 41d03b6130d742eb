package entity

import "time"

// Status possíveis de uma entrada de log de importação.
const (
	LogStatusErro      = "ERRO"
	LogStatusErroFatal = "ERRO FATAL"
	LogStatusIgnorado  = "IGNORADO" // variante reconhecida mas irrelevante (ex.: evento de CT-e)
	LogStatusOrfao     = "ORFAO"    // frete sem nota referenciada
)

// ImportLog registra o resultado de documentos que não geraram registros
// completos durante a ingestão. Um documento ruim nunca aborta o lote; ele
// vira uma entrada aqui e o processamento continua.
type ImportLog struct {
	ID       string // uuid
	DataHora time.Time
	Arquivo  string
	TipoDoc  string // "NF-e" | "CT-e"
	Status   string
	Mensagem string
}
