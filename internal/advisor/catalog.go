package advisor

// commonInfractions 是前端选择器展示的常见违章目录。
var commonInfractions = []string{
	"Exceso de velocidad",
	"No respetar semáforo en rojo",
	"Estacionamiento en lugar prohibido",
	"Manejar bajo los efectos del alcohol o drogas",
	"Uso del celular al manejar",
	"No usar cinturón de seguridad",
}

// CommonInfractions 返回目录的拷贝。
func CommonInfractions() []string {
	out := make([]string, len(commonInfractions))
	copy(out, commonInfractions)
	return out
}
