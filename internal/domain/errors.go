package domain

import "errors"

// Erros de domínio (sem dependências externas).
//
// ErrDocumentoMalformado e ErrVarianteNaoSuportada são recuperáveis por
// definição: o chamador registra o arquivo no ImportLog e segue o lote.
var (
	ErrNotFound             = errors.New("recurso não encontrado")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDocumentoMalformado  = errors.New("documento fiscal malformado")
	ErrVarianteNaoSuportada = errors.New("variante de documento não suportada")
)
