package gfip

// consultaValoresText is a two-channel report with one wrapped row, one
// split currency token, one pagination line and one undersized row.
const consultaValoresText = `CONSULTA VALORES CI GFIP / ESOCIAL
NIT: 123.45678.90-1   Nome: MARIA DA SILVA SOUZA   CPF: 123.456.789-09
Nome da Mãe: ANA DA SILVA   Data de Nascimento: 15/03/1980
Fonte Documento NIT Competência Tomador FPAS Categoria Código Data Envio Remuneração Valor Retido Extemporâneo
GFIP 0001 12345678901 01/2023 12.345.678/0001-90 515 01 115 05/02/2023 1.500,00 165,00 Não
GFIP 0002 12345678901 02/2023 12.345.678/0001-90 515 01 115 07/03/2023 R$ 1.650,50 181,55 Sim
eSocial 0003 12345678901 03/2023 12345678000190 101 10/04/2023 2.000,00 0,00
Não
GFIP 0004 12345678901
04/2023 12.345.678/0001-90 515 01 115 10/05/2023 1.700,00 187,00 Não
Página 1 de 2
GFIP 0005 12345678901 05/2023 12.345.678/0001-90 515 01 115 10/06/2023 1.700,00 Não
`

// sefipText is a legacy extract with abbreviated labels.
const sefipText = `Relatório SEFIP - Consulta de Contribuições
Nome: JOSÉ PEREIRA
NIT: 987.65432.10-0
Nome da Mãe: LUCIA PEREIRA
Dt. Nascto: 01/12/1975
Fonte NIT Competência Tomador Categoria Código Data de Envio Remuneração Valor Retido Extemporâneo
GFIP 98765432100 06/2022 11222333000181 01 115 07/07/2022 2.345,67 258,02 Sim
`
