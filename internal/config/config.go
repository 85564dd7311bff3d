package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	LogDir string // run-log directory

	PageTimeout   time.Duration // rendered-page navigation bound
	FileTimeout   time.Duration // document HEAD/GET bound
	NotifyTimeout time.Duration // webhook delivery bound
	SettleDelay   time.Duration // post-load wait for deferred scripts
	Pace          time.Duration // delay between successive checks

	LogsURL string // deep link attached to alert cards, e.g. the CI run page
}

func FromEnv() Config {
	logDir := os.Getenv("WEBMON_LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	pageTimeout := 45 * time.Second
	if v := os.Getenv("WEBMON_PAGE_TIMEOUT_S"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			pageTimeout = time.Duration(n) * time.Second
		}
	}

	fileTimeout := 15 * time.Second
	if v := os.Getenv("WEBMON_FILE_TIMEOUT_S"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			fileTimeout = time.Duration(n) * time.Second
		}
	}

	pace := 1 * time.Second
	if v := os.Getenv("WEBMON_PACE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			pace = time.Duration(ms) * time.Millisecond
		}
	}

	return Config{
		LogDir:        logDir,
		PageTimeout:   pageTimeout,
		FileTimeout:   fileTimeout,
		NotifyTimeout: 10 * time.Second,
		SettleDelay:   3 * time.Second,
		Pace:          pace,
		LogsURL:       os.Getenv("WEBMON_LOGS_URL"),
	}
}

// RenderDomains lists hosts that block plain HTTP clients; their targets are
// verified through the rendering session even when they are documents.
var RenderDomains = []string{
	"igualdadenlaempresa.es",
}

// DefaultTargets is the production watch list, probed in this order when no
// single target is given on the command line.
var DefaultTargets = []string{
	"https://centinela.lefebvre.es",
	"https://www.iberley.es/legislacion/codigo-penal-ley-organica-10-1995-23-nov-1948765?ancla=89095#ancla_89095",
	"https://www.juntadeandalucia.es/export/drupaljda/Plan_antifraude_25_05_22_ptg.pdf",
	"https://www.ine.es/daco/daco42/clasificaciones/cnae09/nace11_nace2.pdf",
	"https://www.hacienda.gob.es/DGPatrimonio/junta%20consultiva/informes/informes2021/2021-075instruccionprtr.pdf",
	"https://www.miteco.gob.es/es/ministerio/recuperacion-transformacion-resiliencia/transicion-verde/guiadnshmitecov20_tcm30-528436.pdf",
	"https://sede.agenciatributaria.gob.es/Sede/procedimientos/ZA25.shtml",
	"https://www.igualdadenlaempresa.es/DIE/convocatorias/home.htm",
	"https://www.igualdadenlaempresa.es/asesoramiento/herramientas-igualdad/docs/Herramienta_Registro_Retributivo.xlsx",
	"https://www.mites.gob.es/ficheros/ministerio/Portada/valoracion_puestos/2022.07.19_Herramienta_SVPT.xlsm.zip",
	"https://expinterweb.mites.gob.es/regcon/index.htm",
	"https://www.igualdadenlaempresa.es/asesoramiento/acoso-sexual/docs/Protocolo_Acoso_Sexual_Por_Razon_Sexo_2023.pdf",
	"https://www.mites.gob.es/ficheros/ministerio/Portada/valoracion_puestos/2022.01.18_Herramienta_SVPT.xls",
	"https://www.sepblac.es/es/sujetos-obligados/tramites/comunicacion-de-personas-autorizadas-por-el-representante/",
	"https://www.sepblac.es/es/sujetos-obligados/tramites/propuesta-de-nombramiento-de-representante-ante-el-sepblac/",
	"https://www.sepblac.es/es/sujetos-obligados/tramites/comunicacion-por-indicio/",
	"https://www.interior.gob.es/opencms/ca/servicios-al-ciudadano/tramites-y-gestiones/extranjeria/control-de-fronteras/estados-del-espacio-economico-europeo-eee/",
	"https://apdcat.gencat.cat/es/seu_electronica/",
	"https://ws050.juntadeandalucia.es/vea/faces/vi/procedimientoDetalle.xhtml",
	"https://sedeagpd.gob.es/sede-electronica-web/",
	"https://sedeagpd.gob.es/sede-electronica-web/vistas/formBrechaSeguridad/nbs/procedimientoBrechaSeguridad.jsf",
}
