package fiscalxml

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Documento é um XML individual pronto para parse, já fora do zip.
type Documento struct {
	Nome     string
	Conteudo []byte
}

// ExpandirArquivo devolve os documentos XML contidos no arquivo: o próprio
// conteúdo quando é um XML solto, ou cada entrada *.xml quando é um zip.
// Entradas que não sejam XML são ignoradas silenciosamente.
func ExpandirArquivo(nome string, conteudo []byte) ([]Documento, error) {
	if !strings.HasSuffix(strings.ToLower(nome), ".zip") {
		return []Documento{{Nome: nome, Conteudo: conteudo}}, nil
	}

	zr, err := zip.NewReader(bytes.NewReader(conteudo), int64(len(conteudo)))
	if err != nil {
		return nil, fmt.Errorf("abrir zip %s: %w", nome, err)
	}

	var docs []Documento
	for _, entry := range zr.File {
		if !strings.HasSuffix(strings.ToLower(entry.Name), ".xml") {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return docs, fmt.Errorf("abrir entrada %s de %s: %w", entry.Name, nome, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return docs, fmt.Errorf("ler entrada %s de %s: %w", entry.Name, nome, err)
		}
		docs = append(docs, Documento{Nome: entry.Name, Conteudo: data})
	}
	return docs, nil
}
