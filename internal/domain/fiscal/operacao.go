package fiscal

// Classificações de operação derivadas dos CNPJs contra o conjunto de
// CNPJs próprios da companhia.
const (
	OperacaoTransferencia = "Transferência"
	OperacaoVenda         = "Venda"
	OperacaoCompra        = "Compra"
	OperacaoOutros        = "Outros"
)

// Tipos de frete derivados de modFrete.
const (
	FreteCIF    = "CIF"
	FreteFOB    = "FOB"
	FreteOutros = "Outros"
)

// Operacao classifica a operação comparando emitente e destinatário com o
// conjunto de CNPJs próprios. Os CNPJs são normalizados (somente dígitos)
// antes da comparação.
func Operacao(cnpjEmit, cnpjDest string, proprios map[string]bool) string {
	ehEmitente := proprios[LimparCNPJ(cnpjEmit)]
	ehDestinatario := proprios[LimparCNPJ(cnpjDest)]
	switch {
	case ehEmitente && ehDestinatario:
		return OperacaoTransferencia
	case ehEmitente:
		return OperacaoVenda
	case ehDestinatario:
		return OperacaoCompra
	default:
		return OperacaoOutros
	}
}

// TipoFrete traduz o código modFrete para o rótulo comercial.
func TipoFrete(modFrete string) string {
	switch modFrete {
	case "0":
		return FreteCIF
	case "1":
		return FreteFOB
	default:
		return FreteOutros
	}
}

// TraduzirEmpresa devolve o rótulo configurado para o CNPJ quando existe na
// tabela de-para; caso contrário mantém o nome declarado no documento.
func TraduzirEmpresa(nome, cnpj string, dePara map[string]string) string {
	if alias, ok := dePara[LimparCNPJ(cnpj)]; ok && alias != "" {
		return alias
	}
	return nome
}
