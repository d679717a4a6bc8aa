// Package fuzztests houses Go fuzz harnesses for the stylesheet front end
// (source -> stylesheet parser -> selector parser) and for the whole
// analyze/transform path of a single sheet. They guard against panics and
// hangs on arbitrary input.
//
// Назначение: прогонять произвольные байты через FileSet, парсеры,
// анализ и трансформацию.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
